// Command harbind infers session headers and response-derived header values
// from HAR recordings.
package main

import "github.com/usestring/harbind/internal/cli"

func main() {
	cli.Execute()
}
