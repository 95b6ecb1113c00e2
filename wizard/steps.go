package wizard

import (
	"strings"

	"github.com/meikuraledutech/automation"
)

// Step names one page of the wizard.
type Step string

const (
	StepTrigger  Step = "trigger"
	StepPlatform Step = "platform"
	StepPage     Step = "page"
	StepPost     Step = "post"
	StepKeywords Step = "keywords"
	StepResponse Step = "response"
	StepConfig   Step = "config"
)

// Steps lists the steps in the order the wizard walks them.
var Steps = []Step{
	StepTrigger,
	StepPlatform,
	StepPage,
	StepPost,
	StepKeywords,
	StepResponse,
	StepConfig,
}

// Step validation messages.
const (
	MsgSelectService  = "Please select a service type"
	MsgSelectPlatform = "Please select a platform"
	MsgSelectPage     = "Please select a page"
	MsgAddKeyword     = "Please add at least one keyword"
	MsgAddResponse    = "Please configure at least one response message"
	MsgEnterLabel     = "Please enter a label for this automation"
)

// Index returns the position of s in Steps, or -1.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is a known step.
func (s Step) IsValid() bool { return s.Index() >= 0 }

// optionKind returns the catalog list a step picks from.
func (s Step) optionKind() (automation.OptionKind, bool) {
	switch s {
	case StepTrigger:
		return automation.OptionService, true
	case StepPlatform:
		return automation.OptionPlatform, true
	case StepPage:
		return automation.OptionPage, true
	case StepPost:
		return automation.OptionPost, true
	default:
		return "", false
	}
}

// ValidateStep checks the slice of d owned by step. The post step is
// optional and always passes; an empty post means every post of the page.
func ValidateStep(step Step, d Data) []string {
	var problems []string
	switch step {
	case StepTrigger:
		if blank(d.ServiceID) {
			problems = append(problems, MsgSelectService)
		}
	case StepPlatform:
		if blank(d.PlatformID) {
			problems = append(problems, MsgSelectPlatform)
		}
	case StepPage:
		if blank(d.PageID) {
			problems = append(problems, MsgSelectPage)
		}
	case StepPost:
	case StepKeywords:
		if !anyValue(d.Keywords) {
			problems = append(problems, MsgAddKeyword)
		}
	case StepResponse:
		if blank(d.CommentContent) && blank(d.DMContent) {
			problems = append(problems, MsgAddResponse)
		}
	case StepConfig:
		if blank(d.Label) {
			problems = append(problems, MsgEnterLabel)
		}
	}
	return problems
}

// ValidateAll runs every step validator in order.
func ValidateAll(d Data) []string {
	var problems []string
	for _, step := range Steps {
		problems = append(problems, ValidateStep(step, d)...)
	}
	return problems
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func anyValue(list []string) bool {
	for _, v := range list {
		if !blank(v) {
			return true
		}
	}
	return false
}
