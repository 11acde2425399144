/*
Package dsl provides a Go DSL for declaring tickfsm machines programmatically.

It produces the same domain.MachineDecl the Go directive, YAML and HCL
front-ends do, so a declaration built here goes through the same builder and
validator. Positions in diagnostics point at the builder call sites.

Example usage:

	b := dsl.New("DriveMachine").Package("robot").Host("*Robot")

	b.State("Idle").Initial().Entry("resetOdometer")
	b.State("Moving").Periodic("drive").Exit("brake")
	b.State("Done").Terminal().Entry("park")

	b.Transition("Idle", "Moving").Always()
	b.Transition("Moving", "Done").When("distanceReached")

	decl, err := b.Decl()
	if err != nil {
		return err
	}
	graph, err := tickfsm.New().CompileDecl(decl)
*/
package dsl
