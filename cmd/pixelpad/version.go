package main

import (
	"flag"
	"fmt"
)

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	fmt.Fprintf(stdout, "%s version %s", v.r.program, version)
	if commit != "" {
		fmt.Fprintf(stdout, " (%s", commit)
		if date != "" {
			fmt.Fprintf(stdout, ", %s", date)
		}
		fmt.Fprint(stdout, ")")
	}
	fmt.Fprintln(stdout)
	return nil
}

func (v *versionCmd) Program() string { return v.r.program + " version" }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }
