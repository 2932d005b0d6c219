package runner

import (
	"strings"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// CommandKind is what a line of user input resolves to.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandQuit
	CommandPermission
	CommandStep
	CommandText
)

// Command is a parsed line of user input.
type Command struct {
	Kind       CommandKind
	Permission domain.PermissionResponse
	Step       domain.StepResponse
	Text       string
}

var (
	permissionAliases = map[string]domain.PermissionResponse{
		"ok":     domain.PermissionOK,
		"y":      domain.PermissionOK,
		"yes":    domain.PermissionOK,
		"not-ok": domain.PermissionNotOK,
		"n":      domain.PermissionNotOK,
		"no":     domain.PermissionNotOK,
	}
	stepAliases = map[string]domain.StepResponse{
		"done":    domain.StepDone,
		"d":       domain.StepDone,
		"next":    domain.StepDone,
		"problem": domain.StepProblem,
		"p":       domain.StepProblem,
		"help":    domain.StepProblem,
	}
)

// Interpret resolves input against the affordance currently offered.
// Anything that is not an option of the offered action is free text.
func Interpret(input string, offered *domain.Action) Command {
	text := strings.TrimSpace(input)
	key := strings.ToLower(text)

	switch key {
	case "":
		return Command{Kind: CommandNone}
	case "exit", "quit":
		return Command{Kind: CommandQuit}
	}

	if offered != nil {
		switch offered.Kind {
		case domain.ActionPermissionRequest:
			if resp, ok := permissionAliases[key]; ok {
				return Command{Kind: CommandPermission, Permission: resp}
			}
		case domain.ActionStepResponse:
			if resp, ok := stepAliases[key]; ok {
				return Command{Kind: CommandStep, Step: resp}
			}
		}
	}
	return Command{Kind: CommandText, Text: text}
}
