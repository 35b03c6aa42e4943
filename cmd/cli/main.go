package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"roomassign/internal/model"
	"roomassign/internal/pb"

	"github.com/samber/lo"
)

var (
	validSolvers = []string{"gophersat", "roundingsat"}
	solvers      = map[string]func() pb.PBSolver{
		"gophersat":   pb.NewGophersatSolver,
		"roundingsat": pb.NewRoundingsatSolver,
	}
)

func main() {
	// Define arguments
	solverPtr := flag.String("solver", "gophersat", "PB-Solver to use. Allowed values are: \"gophersat\" and \"roundingsat\", where \"gophersat\" is the default")
	filePathPtr := flag.String("file", "", "Path to the input snapshot file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the assignment table will be written as json; if empty, a table is printed to the Standard Output")
	timeoutPtr := flag.Uint("timeout", 0, "Solve timeout in seconds; 0 means no timeout")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr
	timeout := *timeoutPtr

	// Validate arguments
	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	if solverStr == "roundingsat" {
		setConfigPath()
	}

	// Extract input
	input, err := model.InputFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Initialize engines
	solver := solvers[solverStr]()
	assigner := model.NewAssigner(solver)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	// Compute assignments
	assignments, variables, constraints, err := assigner.Assign(ctx, input)
	if err != nil {
		log.Printf("an error occurred during assignment: %v", err)
		printStats(variables, constraints)
		os.Exit(20)
	}

	// Verify assignment correctness
	if violations := assigner.Verify(assignments, input); len(violations) > 0 {
		for _, violation := range violations {
			log.Printf("invariant violation: %v", violation)
		}
		printStats(variables, constraints)
		os.Exit(15)
	}

	if outFile == "" {
		printTable(assignments)
	} else {
		assignmentsJson, err := json.Marshal(toRows(assignments))
		if err != nil {
			log.Fatalf("an error occurred while building output json: %v", err)
		}
		if err := os.WriteFile(outFile, assignmentsJson, 0666); err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	printStats(variables, constraints)
	printSummary(assignments, input)
	os.Exit(10)
}

func printStats(variables, constraints uint64) {
	fmt.Printf("Variables: %v\n", variables)
	fmt.Printf("Constraints: %v\n", constraints)
}

type assignmentRow struct {
	Course     string `json:"course"`
	TimeSlot   string `json:"timeSlot"`
	Room       string `json:"room"`
	Enrollment uint64 `json:"enrollment"`
	Capacity   uint64 `json:"capacity"`
	Status     string `json:"status"`
}

func toRows(assignments []model.Assignment) []assignmentRow {
	return lo.Map(assignments, func(assignment model.Assignment, _ int) assignmentRow {
		return assignmentRow{
			Course:     assignment.Course,
			TimeSlot:   assignment.TimeSlot,
			Room:       assignment.Room,
			Enrollment: assignment.Enrollment,
			Capacity:   assignment.Capacity,
			Status:     assignment.StatusLabel(),
		}
	})
}

func printTable(assignments []model.Assignment) {
	fmt.Printf("%-14v %-18v %-14v %10v %10v  %v\n", "Course", "Time", "Room", "Enrollment", "Capacity", "Status")
	for _, assignment := range assignments {
		capacity := ""
		if assignment.Assigned() {
			capacity = fmt.Sprintf("%v", assignment.Capacity)
		}
		fmt.Printf("%-14v %-18v %-14v %10v %10v  %v\n",
			assignment.Course,
			assignment.TimeSlot,
			assignment.Room,
			assignment.Enrollment,
			capacity,
			assignment.StatusLabel(),
		)
	}
}

func printSummary(assignments []model.Assignment, input model.ModelInput) {
	assigned := lo.CountBy(assignments, func(assignment model.Assignment) bool { return assignment.Assigned() })
	waste := lo.SumBy(assignments, func(assignment model.Assignment) int64 { return assignment.Waste() })

	fmt.Printf("Assigned meetings: %v out of %v\n", assigned, len(assignments))
	fmt.Printf("Total weighted wasted seats: %v\n", waste)

	problems := lo.Filter(assignments, func(assignment model.Assignment, _ int) bool {
		return assignment.Status == model.StatusUnassigned || assignment.Status == model.StatusInfeasible
	})
	if len(problems) == 0 {
		return
	}

	fmt.Println("Meetings needing review:")
	for _, assignment := range problems {
		fmt.Printf("  %v at %v (enrollment: %v): %v\n", assignment.Course, assignment.TimeSlot, assignment.Enrollment, assignment.StatusLabel())
	}

	oversubscribed, err := model.OversubscribedSlots(input)
	if err != nil {
		log.Fatalf("cannot compute slot diagnostics: %v", err)
	}
	slots := lo.Keys(oversubscribed)
	slices.Sort(slots)
	for _, slot := range slots {
		fmt.Printf("  time slot %v is oversubscribed by %v meeting(s)\n", slot, oversubscribed[slot])
	}
}

func setConfigPath() {
	execPath, err := os.Executable()
	if err != nil {
		log.Fatalf("cannot determine executable path: %v", err)
	}
	execPath = path.Dir(execPath)

	// Verify config.json exists
	files, err := os.ReadDir(execPath)
	if err != nil {
		log.Fatalf("cannot read executable's directory: %v", err)
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if slices.Contains(fileNames, "config.json") {
		pb.ConfigPath = execPath + "/config.json"
	}
}
