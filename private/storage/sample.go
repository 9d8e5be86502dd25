// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

const trustDBSample = `
# The type of the database backend. Only sqlite is supported. (default sqlite)
backend = "sqlite"

# The connection string of the database. For sqlite this is the path of the
# database file.
connection = "%s"

# The maximum number of open read connections. (default: number of CPUs,
# at least 4)
max_open_conns = 0

# The maximum number of idle read connections. (default: database/sql
# default)
max_idle_conns = 0
`
