// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package templates

const (
	/**** Graphviz repository diagram ****/
	// requires the "quote" function to produce DOT string literals
	GraphTemplate = `digraph G {
  graph [fontname="fixed",overlap="false",center="1",ratio="compress",label={{quote .Label}},rankdir=BT];
  node [style=filled,fillcolor=white,shape="circle"];

  // Nodes
{{range .Nodes}}  "{{.ID}}"[fillcolor={{quote .Color}},label={{quote .Label}}{{if .Shape}},shape={{quote .Shape}}{{end}}];
{{end}}
  // Edges
{{range .Edges}}  "{{.From}}" -> "{{.To}}"{{if .Back}}[dir=back]{{end}};
{{end}}}
`
)
