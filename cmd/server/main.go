package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/thereceipt/template-engine/internal/api"
	"github.com/thereceipt/template-engine/internal/scanner"
	"github.com/thereceipt/template-engine/internal/store"
	"github.com/thereceipt/template-engine/internal/tui"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	port := getPort()
	storePath := getStorePath()

	st, err := store.New(storePath)
	if err != nil {
		log.Fatalf("Failed to open template store: %v", err)
	}

	sc := scanner.NewService(scanner.HeuristicAnalyzer{})

	tuiApp := tui.NewApp(st, sc, port)

	server := api.NewServer(st, sc)

	// Start server in goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", port)
		tuiApp.AddLog(fmt.Sprintf("🚀 Starting API server on %s", addr), "info")
		if err := server.Run(addr); err != nil {
			serverErrChan <- err
		}
	}()

	tuiApp.AddLog("🧾 Template Engine starting...", "info")
	if n := len(st.List()); n > 0 {
		tuiApp.AddLog(fmt.Sprintf("✅ Loaded %d template(s)", n), "info")
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run TUI (blocking)
	tuiDone := make(chan struct{})
	go func() {
		if err := tuiApp.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		close(tuiDone)
	}()

	select {
	case err := <-serverErrChan:
		log.Fatalf("Server error: %v", err)
	case <-sigChan:
		os.Exit(0)
	case <-tuiDone:
		os.Exit(0)
	}
}

func getPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}

	// Check command line args
	for i, arg := range os.Args {
		if arg == "--port" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}

	return "12213"
}

// getStorePath returns the path to the template store file.
// It tries to place it next to the executable, or falls back to current directory.
func getStorePath() string {
	// First, try to get the executable path and place the store next to it
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		storePath := filepath.Join(exeDir, "templates.json")

		if info, err := os.Stat(exeDir); err == nil && info.IsDir() {
			// Try to create a test file to check write permissions
			testFile := filepath.Join(exeDir, ".template-engine-write-test")
			if f, err := os.Create(testFile); err == nil {
				f.Close()
				os.Remove(testFile)
				return storePath
			}
		}
	}

	// Fallback: use current directory
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "templates.json")
	}

	// Last resort: use home directory config (Unix) or AppData (Windows)
	var configDir string
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			configDir = filepath.Join(appData, "template-engine")
		} else {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "template-engine")
		}
	} else {
		if home := os.Getenv("HOME"); home != "" {
			configDir = filepath.Join(home, ".config", "template-engine")
		}
	}

	if configDir != "" {
		os.MkdirAll(configDir, 0755)
		return filepath.Join(configDir, "templates.json")
	}

	return "templates.json"
}
