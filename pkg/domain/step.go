package domain

// InstallationStep is one instructional unit of the walkthrough.
// Text may embed markdown markers (code fences, bold, links).
type InstallationStep struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Text string `json:"text" yaml:"text" mapstructure:"text"`
}
