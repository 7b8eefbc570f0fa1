package prompts

import "strconv"

// Prompt is a fully rendered prompt pair ready to send to the model.
type Prompt struct {
	Name    string
	Version int
	System  string
	User    string
}

// VersionTag renders the version the way it is persisted ("v1").
func (p Prompt) VersionTag() string {
	return "v" + strconv.Itoa(p.Version)
}
