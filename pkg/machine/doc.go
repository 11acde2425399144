// Package machine assembles declarations into a directed state graph.
//
// Build resolves state names into edges and sorts every state's outgoing
// transitions by priority. It performs no semantic validation: the validator
// inspects the Graph and, when it finds nothing fatal, freezes it. A frozen
// Graph is read-only and may be shared by any number of runtime instances.
package machine
