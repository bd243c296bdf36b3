package service

import (
	"fmt"
	"path/filepath"

	"howett.net/plist"
)

// launchdJob mirrors the keys launchd expects in a job definition.
type launchdJob struct {
	Label             string   `plist:"Label"`
	ProgramArguments  []string `plist:"ProgramArguments"`
	RunAtLoad         bool     `plist:"RunAtLoad"`
	KeepAlive         bool     `plist:"KeepAlive"`
	StandardOutPath   string   `plist:"StandardOutPath,omitempty"`
	StandardErrorPath string   `plist:"StandardErrorPath,omitempty"`
}

func renderLaunchd(def Definition) ([]byte, error) {
	job := launchdJob{
		Label:            Label,
		ProgramArguments: programArguments(def),
		RunAtLoad:        true,
		KeepAlive:        true,
	}
	if def.LogDir != "" {
		job.StandardOutPath = filepath.Join(def.LogDir, "launchd.log")
		job.StandardErrorPath = filepath.Join(def.LogDir, "launchd-error.log")
	}

	data, err := plist.MarshalIndent(job, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal launchd job: %w", err)
	}
	return append(data, '\n'), nil
}

func programArguments(def Definition) []string {
	args := []string{def.DaemonPath}
	if def.ConfigPath != "" {
		args = append(args, "--config", def.ConfigPath)
	}
	return args
}
