// Package procs inspects and starts processes outside the selector.
package procs

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-ps"
)

// FindByName returns the PIDs of running processes whose executable is name.
// Linux truncates executable names to 15 characters, so longer names are
// compared on their prefix.
func FindByName(name string) ([]int, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}

	comm := name
	if len(comm) > 15 {
		comm = comm[:15]
	}

	var pids []int
	for _, p := range processes {
		if p.Executable() == comm {
			pids = append(pids, p.Pid())
		}
	}
	slices.Sort(pids)
	return pids, nil
}

// Running maps each of names to the PIDs currently running under it. Names
// with no process are left out.
func Running(names []string) (map[string][]int, error) {
	running := map[string][]int{}
	for _, name := range names {
		pids, err := FindByName(name)
		if err != nil {
			return nil, err
		}
		if len(pids) > 0 {
			running[name] = pids
		}
	}
	return running, nil
}

// RunDetached starts a process in its own process group with its I/O sent to
// /dev/null, so it outlives the selector. It returns the new PID.
func RunDetached(logger hclog.Logger, command ...string) (int, error) {
	if len(command) == 0 {
		return -1, fmt.Errorf("no command given")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		logger.Warn("could not open /dev/null for detached process", "error", err)
	} else {
		cmd.Stdin = devNull
		cmd.Stdout = devNull
		cmd.Stderr = devNull
		defer devNull.Close()
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("error starting detached process: %w", err)
	}
	pid := cmd.Process.Pid
	logger.Debug("detached process started", "pid", pid, "command", command)

	// reap it so it doesn't linger as a zombie while we run
	go func() { _ = cmd.Wait() }()
	return pid, nil
}
