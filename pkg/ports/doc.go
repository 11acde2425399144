/*
Package ports defines the driven ports of the tickfsm compiler.

# Key Interfaces

  - Extractor: turns one input file into machine declarations. The Go
    directive, YAML and HCL front-ends implement it.
  - Matcher: lets the compiler pick an extractor by file name.
*/
package ports
