package ux

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/jorge-barreto/engmgr/internal/project"
)

// RenderProjects prints a table of projects with their readiness and
// procedure file, marking the default project.
func RenderProjects(w io.Writer, statuses []project.Status, defaultProject string) {
	if len(statuses) == 0 {
		fmt.Fprintf(w, "%s(no projects configured)%s\n", Dim, Reset)
		fmt.Fprintf(w, "\nRun %sengmgr init <project>%s to create one.\n", Cyan, Reset)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"", "Project", "Status", "Procedure"})

	for _, st := range statuses {
		marker := ""
		name := st.Name
		if st.Name == defaultProject {
			marker = Yellow + "→" + Reset
			name = Bold + st.Name + Reset
		}
		var status, procedure string
		switch {
		case st.Err != nil:
			status = Red + "config error" + Reset
			procedure = project.Message(st.Err)
		case st.Ready():
			status = Green + "ready" + Reset
			procedure = st.ProcedurePath
		default:
			status = Red + "missing" + Reset
			procedure = st.ProcedureFile + " (not found)"
		}
		table.Append([]string{marker, name, status, procedure})
	}
	table.Render()

	if defaultProject != "" {
		fmt.Fprintf(w, "\n%sDefault:%s %s\n", Bold, Reset, defaultProject)
	}
	fmt.Fprintln(w)
}
