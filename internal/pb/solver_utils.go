package pb

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var ConfigPath = "config.json"

// parseSolution extracts the status line and the value line of an OPB
// solver's output. Only variables present in the value line are set; the
// rest stay false.
func parseSolution(solverOutput string, variables uint64) (status string, solution Solution) {
	lines := strings.Split(solverOutput, "\n")

	statusLine, ok := lo.Find(lines, func(line string) bool { return strings.HasPrefix(line, "s ") })
	if !ok {
		return "", nil
	}
	status = strings.TrimSpace(statusLine[2:])

	tokens := lo.Reduce(
		lo.Filter(lines, func(line string, _ int) bool {
			return strings.HasPrefix(line, "v ")
		}),
		func(tokens []string, line string, _ int) []string {
			return append(tokens, strings.Fields(line[2:])...)
		},
		[]string{},
	)

	solution = make(Solution, variables)
	lo.ForEach(tokens, func(token string, _ int) {
		negated := false
		if strings.HasPrefix(token, "-") || strings.HasPrefix(token, "~") {
			negated = true
			token = token[1:]
		}
		if strings.HasPrefix(token, "x") {
			token = token[1:]
		}
		variable, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			log.Panicf("invalid literal in solver output: %v", err)
		}
		if variable >= 1 && variable <= variables {
			solution[variable-1] = !negated
		}
	})

	return status, solution
}

func getExecutablePath(solver string) string {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil {
		return solver // Fall back to the binary name on PATH
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		log.Fatalf("cannot read %v file: %v", ConfigPath, err)
	}

	var config map[string]string
	mapstructure.Decode(configJson, &config)

	path, ok := config[solver+"Path"]
	if !ok {
		return solver
	}
	return path
}
