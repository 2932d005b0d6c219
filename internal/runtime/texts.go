package runtime

// DefaultErrorMarker is the substring of the scripted "fix this typo" reply.
const DefaultErrorMarker = "space before your OpenAI API key"

// Fixed assistant texts.
const (
	DeclinedText         = "No problem! When you're ready to proceed, just let me know and I'll guide you through the screen sharing setup."
	PermissionFailedText = "Screen sharing permission was denied. Please try again when ready."
	CaptureFailedText    = "I couldn't capture the screen. Please try again."
	AnalysisFailedText   = "Failed to analyze the screenshot. Please try again."
	ProceedText          = "I understand you want to proceed. Let's continue with the installation process. Please follow the next step:"
	ProblemPrefix        = "No worries, let's go through this step again. Take your time, and click \"Done\" once it's finished:\n\n"
)
