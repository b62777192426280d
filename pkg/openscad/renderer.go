package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

// Matches: use <file.scad>, include <file.scad>, use <./file.scad>, etc.
var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// IsSource reports whether path names an OpenSCAD source file
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".scad")
}

// Renderer turns OpenSCAD sources into STL using the openscad CLI
type Renderer struct {
	Binary string
	log    *zap.Logger
}

// NewRenderer creates a renderer calling the openscad binary from PATH
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{Binary: "openscad", log: log}
}

// Render renders scadFile and returns the STL bytes. The intermediate file
// lives in a temporary directory that is removed afterwards.
func (r *Renderer) Render(ctx context.Context, scadFile string) ([]byte, error) {
	binary, err := exec.LookPath(r.Binary)
	if err != nil {
		return nil, ErrNotInstalled
	}

	absScadFile, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", scadFile, err)
	}

	tmpDir, err := os.MkdirTemp("", "stlview-scad-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputFile := filepath.Join(tmpDir, strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))+".stl")

	cmd := exec.CommandContext(ctx, binary, "-o", outputFile, absScadFile)
	cmd.Dir = filepath.Dir(absScadFile)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Info("rendering openscad source", zap.String("file", absScadFile))
	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			msg.WriteString("\nstderr: ")
			msg.WriteString(strings.TrimSpace(stderr.String()))
		}
		if stdout.Len() > 0 {
			msg.WriteString("\nstdout: ")
			msg.WriteString(strings.TrimSpace(stdout.String()))
		}
		return nil, errors.New(msg.String())
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered STL: %w", err)
	}
	return data, nil
}

// Dependencies returns scadFile followed by every file it pulls in through
// use or include statements, as absolute paths
func (r *Renderer) Dependencies(scadFile string) ([]string, error) {
	absScadFile, err := filepath.Abs(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", scadFile, err)
	}

	visited := make(map[string]bool)
	var deps []string
	if err := r.collect(absScadFile, filepath.Dir(absScadFile), visited, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) collect(scadFile, rootDir string, visited map[string]bool, deps *[]string) error {
	// Avoid circular dependencies
	if visited[scadFile] {
		return nil
	}
	visited[scadFile] = true
	*deps = append(*deps, scadFile)

	direct, err := parseDependencies(scadFile, rootDir)
	if err != nil {
		return err
	}
	for _, dep := range direct {
		if err := r.collect(dep, rootDir, visited, deps); err != nil {
			return err
		}
	}
	return nil
}

func parseDependencies(scadFile, rootDir string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	scadDir := filepath.Dir(scadFile)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); len(m) > 1 {
			deps = append(deps, resolveDependency(m[1], scadDir, rootDir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolveDependency looks next to the including file first, then in rootDir
func resolveDependency(dep, currentDir, rootDir string) string {
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return filepath.Clean(filepath.Join(currentDir, dep))
	}
	if p := filepath.Join(currentDir, dep); fileExists(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(rootDir, dep))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
