// HipSTR filters sequencing reads that span short tandem repeat regions
// and groups them by sample for genotyping.
package main

import "github.com/tyjo/HipSTR/cmd"

func main() {
	cmd.Execute()
}
