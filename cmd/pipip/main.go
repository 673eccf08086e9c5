// pipip solves SAT and 0/1 integer programs by compiling them into Python
// package-resolution problems and letting uv or pip-compile do the search.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmaaz-git/pipip/internal/cnf"
	"github.com/mmaaz-git/pipip/internal/ilp"
	"github.com/mmaaz-git/pipip/internal/resolver"
	"github.com/mmaaz-git/pipip/internal/solve"
)

var (
	engineName string
	timeout    time.Duration
	configPath string
	dumpPath   string
	verbose    bool
)

// errNoSolution is returned by a subcommand when the instance has no
// solution; main maps it to exit code 1 after the deferred cleanup has run.
var errNoSolution = errors.New("no solution")

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNoSolution):
		return 1
	default:
		return 2
	}
}

func main() {
	root := &cobra.Command{
		Use:           "pipip",
		Short:         "Solve SAT and 0/1 integer programs with a package resolver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&engineName, "engine", resolver.EngineFast,
		`resolution engine: "fast" (uv) or "reference" (pip-compile)`)
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "abort the engine after this duration (0 = no limit)")
	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "JSON file overriding engine binary paths")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	satCmd := &cobra.Command{
		Use:   "sat <file.cnf>",
		Short: "Solve a DIMACS CNF formula",
		Args:  cobra.ExactArgs(1),
		RunE:  runSAT,
	}
	satCmd.Flags().StringVar(&dumpPath, "dump", "", "also write the parsed formula as DIMACS to this path")

	ilpCmd := &cobra.Command{
		Use:   "ilp <file>",
		Short: "Solve a system of 0/1 integer linear inequalities",
		Args:  cobra.ExactArgs(1),
		RunE:  runILP,
	}
	ilpCmd.Flags().StringVar(&dumpPath, "dump", "", "write the compiled CNF as DIMACS to this path")

	root.AddCommand(satCmd, ilpCmd)

	if err := root.Execute(); err != nil {
		code := exitCode(err)
		if code != 1 {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}

func newEngine() (resolver.Resolver, error) {
	config, err := resolver.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return resolver.New(engineName, config)
}

func solveContext() (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.Background(), func() {}
}

func runSAT(_ *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	formula, err := cnf.Parse(file)
	if err != nil {
		return err
	}
	if dumpPath != "" {
		if err := os.WriteFile(dumpPath, []byte(formula.DIMACS()), 0o644); err != nil {
			return err
		}
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	ctx, cancel := solveContext()
	defer cancel()

	assignment, satisfiable, err := solve.SAT(ctx, formula, engine)
	if err != nil {
		return err
	}
	if !satisfiable {
		fmt.Println("UNSATISFIABLE")
		return errNoSolution
	}

	fmt.Println("SATISFIABLE")
	variables := lo.Keys(assignment)
	slices.Sort(variables)
	for _, v := range variables {
		fmt.Printf("x%d = %v\n", v, assignment[v])
	}
	return nil
}

func runILP(_ *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	constraints, err := ilp.ParseSystem(file)
	if err != nil {
		return err
	}
	if dumpPath != "" {
		formula, _, err := ilp.Encode(constraints)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dumpPath, []byte(formula.DIMACS()), 0o644); err != nil {
			return err
		}
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}
	ctx, cancel := solveContext()
	defer cancel()

	values, feasible, err := solve.ILP(ctx, constraints, engine)
	if err != nil {
		return err
	}
	if !feasible {
		fmt.Println("Infeasible")
		return errNoSolution
	}

	fmt.Println("Feasible")
	variables := lo.Keys(values)
	slices.Sort(variables)
	for _, v := range variables {
		fmt.Printf("x%d = %d\n", v, values[v])
	}
	return nil
}
