package main

import "github.com/quillnotes/quill-updater/internal/ui"

func main() {
	ui.InitTerminal()
	Execute()
}
