package doctor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/conn-castle/jdk-pulse/internal/hook"
	"github.com/conn-castle/jdk-pulse/internal/jdk"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/probe"
	"github.com/conn-castle/jdk-pulse/internal/state"
)

const (
	beginMarker   = "__JDKPULSE_BEGIN__"
	endMarker     = "__JDKPULSE_END__"
	javaHomeField = "JAVA_HOME="
)

var versionPattern = regexp.MustCompile(`version "([^"]+)"`)

const posixProbeScript = `printf '%s\n' ` + beginMarker + `; printf 'JAVA_HOME=%s\n' "${JAVA_HOME-}"; java -version 2>&1; printf '%s\n' ` + endMarker

const fishProbeScript = `echo ` + beginMarker + `; echo "JAVA_HOME=$JAVA_HOME"; java -version 2>&1; echo ` + endMarker

const pwshProbeScript = `Write-Output '` + beginMarker + `'; Write-Output "JAVA_HOME=$env:JAVA_HOME"; & java -version 2>&1 | ForEach-Object { "$_" }; Write-Output '` + endMarker + `'`

// shellObservation is what a freshly started shell reported.
type shellObservation struct {
	JavaHome string
	Version  string
	Found    bool
}

// liveShellRequest builds the probe for a shell. The shell must load its startup files,
// so POSIX shells run interactive (sh as a login shell, since it only reads ~/.profile).
func liveShellRequest(shell LiveShell, timeout time.Duration, tty bool) probe.Request {
	kind, err := hook.ParseShell(shell.Name)
	if err != nil {
		kind, _ = hook.ParseShell(shell.Path)
	}
	var args []string
	switch kind {
	case hook.Fish:
		args = []string{"-i", "-c", fishProbeScript}
	case hook.Pwsh:
		args = []string{"-NoLogo", "-Command", pwshProbeScript}
	case hook.Sh:
		args = []string{"-l", "-c", posixProbeScript}
	default:
		args = []string{"-i", "-c", posixProbeScript}
	}
	// The inherited JAVA_HOME would mask a missing hook.
	env := probe.Environ("JAVA_HOME=", "TERM=dumb")
	return probe.Request{
		Name:    shell.Path,
		Args:    args,
		Env:     env,
		Timeout: timeout,
		TTY:     tty,
	}
}

// parseShellOutput extracts the fields printed between the probe markers. Anything a
// startup file prints before or after them is ignored.
func parseShellOutput(output string) (shellObservation, bool) {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	begin := -1
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == beginMarker {
			begin = i
			continue
		}
		if line == endMarker && begin >= 0 {
			return scanObservation(lines[begin+1 : i]), true
		}
	}
	return shellObservation{}, false
}

func scanObservation(lines []string) shellObservation {
	var obs shellObservation
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if value, ok := strings.CutPrefix(line, javaHomeField); ok && !obs.Found {
			obs.JavaHome = strings.TrimSpace(value)
			obs.Found = true
			continue
		}
		if obs.Version == "" {
			if match := versionPattern.FindStringSubmatch(line); match != nil {
				obs.Version = match[1]
			}
		}
	}
	return obs
}

func expectedLiveShell(sel state.Selection) string {
	if !sel.Selected() {
		return messages.DoctorObservedNone
	}
	if major, ok := expectedMajor(sel.Home); ok {
		return fmt.Sprintf(messages.DoctorLiveShellObservedFmt, sel.Home, strconv.Itoa(major))
	}
	return fmt.Sprintf(messages.DoctorLiveShellObservedFmt, sel.Home, messages.DoctorObservedUnknown)
}

func checkLiveShell(ctx context.Context, runner probe.Runner, shell LiveShell, sel state.Selection, timeout time.Duration, tty bool) Check {
	check := Check{Expected: expectedLiveShell(sel), Observed: messages.DoctorObservedUnknown}
	if !sel.Selected() {
		check.Verdict = VerdictWarn
		check.Notes = []string{messages.DoctorLiveShellNoSelection}
		return check
	}
	if shell.Path == "" || runner == nil {
		check.Verdict = VerdictWarn
		check.Notes = []string{messages.DoctorLiveShellNoShell}
		return check
	}

	result, err := runner.Run(ctx, liveShellRequest(shell, timeout, tty))
	if err != nil {
		check.Verdict = VerdictWarn
		check.Notes = []string{fmt.Sprintf(messages.DoctorLiveShellProbeFailedFmt, err)}
		return check
	}
	obs, ok := parseShellOutput(string(result.Stdout))
	if !ok {
		check.Verdict = VerdictWarn
		check.Notes = []string{messages.DoctorLiveShellNoMarkers}
		if result.ExitCode != 0 {
			check.Notes = append(check.Notes, fmt.Sprintf(messages.DoctorLiveShellExitFmt, result.ExitCode))
		}
		return check
	}

	observedMajor := messages.DoctorObservedUnknown
	if major, ok := jdk.ParseMajor(obs.Version); ok {
		observedMajor = strconv.Itoa(major)
	}
	check.Observed = fmt.Sprintf(messages.DoctorLiveShellObservedFmt, displayHome(obs.JavaHome), observedMajor)
	check.Verdict = VerdictOK

	if !sameSelection(obs.JavaHome, sel.Home) {
		check.Verdict = VerdictFail
		check.Notes = append(check.Notes,
			fmt.Sprintf(messages.DoctorLiveShellHomeMismatchFmt, displayHome(obs.JavaHome), sel.Home))
	}
	wantMajor, known := expectedMajor(sel.Home)
	switch {
	case obs.Version == "":
		if check.Verdict == VerdictOK {
			check.Verdict = VerdictWarn
		}
		check.Notes = append(check.Notes, messages.DoctorLiveShellNoJava)
	case !known:
		check.Notes = append(check.Notes, messages.DoctorLiveShellMajorUnknown)
	case observedMajor != strconv.Itoa(wantMajor):
		check.Verdict = VerdictFail
		check.Notes = append(check.Notes,
			fmt.Sprintf(messages.DoctorLiveShellMajorMismatchFmt, observedMajor, wantMajor))
	}
	if check.Verdict != VerdictOK {
		check.Notes = append(check.Notes, fmt.Sprintf(messages.DoctorLiveShellRecommendFmt, shell.Name))
	}
	return check
}
