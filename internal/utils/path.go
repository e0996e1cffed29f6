package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

const appDir = "screencomp"

// PathResolver resolves config and log locations for the binary
type PathResolver struct {
	executableDir string
	homeDir       string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
	}
	log.Debugf("PathResolver initialized: execDir=%s, configHome=%s", pr.executableDir, xdg.ConfigHome)
	return pr, nil
}

// GetConfigPath returns the full path for a config file.
// It prefers $XDG_CONFIG_HOME/screencomp and falls back to writable
// locations when that directory cannot be created.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(appDir, filename))
	if err == nil {
		return path, nil
	}
	log.Debugf("xdg config location unusable: %v", err)

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+appDir),
		filepath.Join(os.TempDir(), appDir),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if ensureWritable(dir) {
			path = filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// GetLogPath returns where the interactive host writes its log, since
// stdout belongs to the terminal UI there.
func (pr *PathResolver) GetLogPath(filename string) string {
	if path, err := xdg.StateFile(filepath.Join(appDir, filename)); err == nil {
		return path
	}
	return filepath.Join(os.TempDir(), appDir+"-"+filename)
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	return map[string]string{
		"executable_dir": pr.executableDir,
		"current_dir":    cwd,
		"home_dir":       pr.homeDir,
		"config_home":    xdg.ConfigHome,
		"state_home":     xdg.StateHome,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}
}

// ensureWritable creates the directory if it doesn't exist and tests writability
func ensureWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		log.Debugf("Directory %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(testFile)
	return true
}
