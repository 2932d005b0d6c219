package catalog

import "github.com/aretw0/walkthrough/pkg/domain"

// DetourStepID is the step whose first confirmation triggers the scripted
// "space before the API key" correction.
const DetourStepID = "add-api-keys"

// LangGraphSteps is the compiled-in walkthrough for installing LangGraph Studio on macOS.
var LangGraphSteps = []domain.InstallationStep{
	{
		ID:   "download-langgraph-studio",
		Text: "I can see the LangGraph Studio .dmg file in your Downloads folder.\n\nNow, click this link to download LangGraph Studio: [Download LangGraph Studio](https://langgraph-studio.vercel.app/api/mac/latest)",
	},
	{
		ID:   "install-docker-or-orbstack",
		Text: "Great job downloading LangGraph Studio!\n\nNow let's set up Docker Desktop. Click the Apple menu in the top-left corner of your screen.",
	},
	{
		ID:   "open-system-settings",
		Text: "Great job clicking the Apple menu. I can see the System Settings window is now open.\n\nClick 'System Settings' in the dropdown menu.",
	},
	{
		ID:   "open-privacy-security",
		Text: "The System Settings window is now active.\n\nClick 'Privacy & Security' in the sidebar.",
	},
	{
		ID:   "allow-docker",
		Text: "Well done.\nYou've found the Privacy & Security section.\n\nNow scroll down and click 'Allow & Restart' next to Docker Desktop.",
	},
	{
		ID:   "open-terminal",
		Text: "Docker Desktop is now running - I can see the whale icon in your menu bar.\n\nLet's open Terminal - press `Cmd + Space` and type 'Terminal', then press Enter.",
	},
	{
		ID:   "clone-repo",
		Text: "I can see you've opened Terminal successfully.\n\nNow let's clone the example repository. Run this command:\n```bash\ngit clone https://github.com/langchain-ai/langgraph-example.git\n```",
	},
	{
		ID:   "navigate-to-repo",
		Text: "The repository has been cloned successfully.\n\nNow navigate to the project directory:\n```bash\ncd langgraph-example\n```",
	},
	{
		ID:   "create-env-file",
		Text: "You're now in the correct directory.\n\nLet's create and open the environment file:\n```bash\ntouch .env\ncode .env\n```",
	},
	{
		ID:   DetourStepID,
		Text: "The .env file is ready for editing.\n\nCopy these API key placeholders into your .env file:\n```bash\nOPENAI_API_KEY=sk-...\nANTHROPIC_API_KEY=sk-...\nTAVILY_API_KEY=tvly-...\n```",
	},
	{
		ID:   "remove-langsmith-key",
		Text: "I can see all the API keys are properly formatted in your .env file.\n\nNow delete any line that starts with `LANGSMITH_API_KEY` and save the file with `Cmd + S`.",
	},
	{
		ID:   "open-dmg",
		Text: "The LANGSMITH_API_KEY has been removed.\n\nNow let's install LangGraph Studio - double-click the downloaded `.dmg` file.",
	},
	{
		ID:   "drag-to-applications",
		Text: "The installer window is now open.\n\nDrag the **LangGraph Studio** icon to the **Applications** folder.",
	},
	{
		ID:   "open-langgraph",
		Text: "LangGraph Studio has been installed.\n\nPress `Cmd + Space`, type 'LangGraph Studio', and press Enter to launch it.",
	},
	{
		ID:   "click-sign-in",
		Text: "LangGraph Studio is now running.\n\nClick the '**Sign in with LangSmith**' button.",
	},
	{
		ID:   "enter-credentials",
		Text: "The login form is visible.\n\nEnter your LangSmith email and password, then click '**Sign In**'.",
	},
	{
		ID:   "open-project",
		Text: "You've successfully logged in.\n\nClick the '**Open Project**' button in the top-left corner.",
	},
	{
		ID:   "select-folder",
		Text: "The file picker dialog is open.\n\nNavigate to and select the `langgraph-example` folder.",
	},
	{
		ID:   "check-graph",
		Text: "The project has been loaded.\n\nLook for connected boxes in the main window. If not visible, click '**Refresh**'.",
	},
}

// Default returns the LangGraph Studio catalog.
func Default() *Catalog {
	c, err := New(LangGraphSteps,
		WithTitle("LangGraph Studio"),
		WithWelcome("👋 Hello! I'll help you install **LangGraph Studio**. I'll guide you through each step and verify your progress using screen sharing."),
		WithCompletion("🎉 Congratulations! LangGraph Studio is now installed and ready to use. You can start building and visualizing your graphs. Is there anything else you need help with?"),
	)
	if err != nil {
		panic(err) // compiled-in table
	}
	return c
}
