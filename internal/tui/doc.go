// Package tui implements the mpvlens terminal overlay.
//
// It is built with Charmbracelet's BubbleTea, Lipgloss and Bubbles
// libraries and drives an mpv.Host through a console.Console.
//
// Component architecture:
//
//	model.go       root model, section accordion, Init/Update/View
//	keys.go        key bindings and footer hints
//	theme.go       centralized color + style definitions
//	header.go      top bar, section titles, status line
//	panes.go       list cursor, options/properties, commands, bindings
//	tree.go        property value flattening into expandable rows
//	consoleview.go log viewport and command line
//	clipboard.go   clipboard access
//	helpers.go     filtering, truncation, etc.
package tui
