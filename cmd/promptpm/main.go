/*
   Copyright 2025 The DIRPX Authors

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

package main

import (
	"context"
	"fmt"
	"os"

	"dirpx.dev/promptpm/internal/payload"
)

// main handles the failures that reach cobra itself: unknown commands,
// flag parsing errors, and a --config file that PersistentPreRunE cannot
// load; all of them exit with ExitInternalError. Every recognized command
// path otherwise terminates itself via emitAndExit, which carries the full
// exit-code taxonomy.
func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s: error: %v\n", rootCmd.CommandPath(), err)
		os.Exit(payload.ExitInternalError)
	}
}
