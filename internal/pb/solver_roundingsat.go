package pb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const roundingsatBinary = "roundingsat"

type roundingsatSolver struct{}

func NewRoundingsatSolver() PBSolver {
	return &roundingsatSolver{}
}

func (*roundingsatSolver) Solve(ctx context.Context, instance PB) (Solution, error) {
	if instance.Variables == 0 {
		return Solution{}, nil
	}

	opb := instance.ToOPB() // Transform instance into OPB string format

	cmd := exec.CommandContext(ctx, getExecutablePath(roundingsatBinary))
	cmd.Stdin = strings.NewReader(opb) // Feed opb into roundingsat's standard input

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSolved, ctxErr)
	}
	// Exit-code of 30 stands for optimum found and exit-code 20 stands for unsatisfiable
	if err != nil && cmd.ProcessState.ExitCode() != 30 && cmd.ProcessState.ExitCode() != 20 {
		return nil, fmt.Errorf("an error occurred during roundingsat execution: %v : %v", err.Error(), stderr.String())
	}

	status, solution := parseSolution(stdOut.String(), instance.Variables)
	switch status {
	case "UNSATISFIABLE":
		return nil, nil
	case "OPTIMUM FOUND", "SATISFIABLE":
		return solution, nil
	}
	return nil, fmt.Errorf("%w: roundingsat reported %q", ErrNotSolved, status)
}
