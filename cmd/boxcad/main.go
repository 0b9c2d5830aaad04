// Package main provides the boxcad CLI for building parametric box and case
// models and exporting them as STEP files.
package main

func main() {
	Execute()
}
