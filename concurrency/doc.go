/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/


// Package concurrency compares a client-submitted root identifier with the
// current one to detect stale writes without locking.
//
// Compare is pure: it never consults storage. The persistence layer decides
// what to do with EquivalentChanged; Check offers the common policy of
// rejecting it with a *ConflictError.
package concurrency
