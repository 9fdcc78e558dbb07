package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var employeeDeleteYes bool

var employeeCmd = &cobra.Command{
	Use:     "employee",
	Aliases: []string{"employees"},
	Short:   "Manage the employee roster",
}

var employeeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeAdd,
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Args:  cobra.NoArgs,
	RunE:  runEmployeeList,
}

var employeeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an employee together with all of their entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeDelete,
}

func init() {
	employeeDeleteCmd.Flags().BoolVarP(&employeeDeleteYes, "yes", "y", false, "Do not ask for confirmation")
	employeeCmd.AddCommand(employeeAddCmd)
	employeeCmd.AddCommand(employeeListCmd)
	employeeCmd.AddCommand(employeeDeleteCmd)
}

func runEmployeeAdd(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	name, err := w.session.AddEmployee(contextOf(cmd), args[0])
	if !applied(err) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added employee %q\n", name)
	return err
}

func runEmployeeList(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	employees := w.session.Employees()
	if len(employees) == 0 {
		fmt.Fprintln(out, "No employees yet. Add one with: tts employee add <name>")
		return nil
	}
	for _, e := range employees {
		fmt.Fprintln(out, e)
	}
	return nil
}

func runEmployeeDelete(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	name := args[0]
	if err := requireEmployee(w, name); err != nil {
		return err
	}
	if !employeeDeleteYes {
		ok, err := confirm(fmt.Sprintf("Delete %s and all of their time entries?", name))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not deleted: confirm interactively or pass --yes")
		}
	}

	err = w.session.DeleteEmployee(contextOf(cmd), name)
	if !applied(err) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted employee %q\n", name)
	return err
}
