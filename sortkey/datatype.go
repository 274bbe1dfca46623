// Copyright 2024 The sortx Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sortkey implements the typed key model and comparator algebra:
// parsing key-spec strings into KeySpec values, coercing field values to
// the declared data type, and composing a key vector into a single total
// order over records.
package sortkey

//go:generate go run github.com/abice/go-enum -f=$GOFILE --nocase --flag --names

// ENUM(str, num, date, nat)
type DataType int
