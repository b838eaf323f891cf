package lang

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Sysinfo supplies values for $sys references. Lookup receives the key
// in canonical snake_case form and must fail for keys outside the
// supported set.
type Sysinfo interface {
	Lookup(key string) (string, error)
}

// SysinfoFunc adapts a function to the Sysinfo interface.
type SysinfoFunc func(key string) (string, error)

// Lookup implements Sysinfo.
func (f SysinfoFunc) Lookup(key string) (string, error) { return f(key) }

// MapSysinfo returns a Sysinfo backed by a fixed map; keys outside the
// map fail. Useful for tests and hermetic resolution.
func MapSysinfo(props map[string]string) Sysinfo {
	return SysinfoFunc(func(key string) (string, error) {
		if v, ok := props[NormalizeKey(key)]; ok {
			return v, nil
		}
		return "", fmt.Errorf("unknown system property %q", key)
	})
}

// sysKeys is the fixed set of supported $sys keys.
var sysKeys = map[string]struct{}{
	"os":             {},
	"hostname":       {},
	"kernel_version": {},
	"os_version":     {},
	"cpu_arch":       {},
	"cpu_count":      {},
	"memory_total":   {},
	"memory_free":    {},
	"memory_used":    {},
	"uptime":         {},
	"product_name":   {},
}

// SysKeys returns the supported $sys keys in canonical form.
func SysKeys() []string {
	keys := make([]string, 0, len(sysKeys))
	for k := range sysKeys {
		keys = append(keys, k)
	}
	return keys
}

// hostSysinfo reads properties from the running host. Values that
// cannot be determined (non-Linux hosts, restricted /proc or /sys)
// degrade to "unknown" rather than failing; only keys outside the
// supported set are errors.
type hostSysinfo struct{}

func (hostSysinfo) Lookup(key string) (string, error) {
	key = NormalizeKey(key)
	if _, ok := sysKeys[key]; !ok {
		return "", fmt.Errorf("unknown system property %q", key)
	}
	switch key {
	case "os":
		return runtime.GOOS, nil
	case "cpu_arch":
		return runtime.GOARCH, nil
	case "cpu_count":
		return strconv.Itoa(runtime.NumCPU()), nil
	case "hostname":
		if name, err := os.Hostname(); err == nil {
			return name, nil
		}
	case "kernel_version":
		if s, ok := readTrimmed("/proc/sys/kernel/osrelease"); ok {
			return s, nil
		}
	case "os_version":
		if s, ok := osReleasePrettyName(); ok {
			return s, nil
		}
	case "product_name":
		if s, ok := readTrimmed("/sys/class/dmi/id/product_name"); ok {
			return s, nil
		}
	case "uptime":
		if secs, ok := uptimeSeconds(); ok {
			return formatUptime(secs), nil
		}
	case "memory_total", "memory_free", "memory_used":
		if total, avail, ok := meminfo(); ok {
			switch key {
			case "memory_total":
				return formatBytes(total), nil
			case "memory_free":
				return formatBytes(avail), nil
			default:
				return formatBytes(total - avail), nil
			}
		}
	}
	return "unknown", nil
}

func readTrimmed(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func osReleasePrettyName() (string, bool) {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			return strings.Trim(v, `"`), true
		}
	}
	return "", false
}

func uptimeSeconds() (uint64, bool) {
	s, ok := readTrimmed("/proc/uptime")
	if !ok {
		return 0, false
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return uint64(secs), true
}

// meminfo returns total and available memory in bytes.
func meminfo() (total, avail uint64, ok bool) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, 0, false
	}
	parse := func(line string) (uint64, bool) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			total, _ = parse(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			avail, _ = parse(line)
		}
	}
	return total, avail, total > 0
}

// formatBytes renders a byte count with a binary unit suffix, two
// decimal places above bytes.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < 3; m /= unit {
		div *= unit
		exp++
	}
	suffix := [...]string{"KB", "MB", "GB", "TB"}[exp]
	return fmt.Sprintf("%.2f %s", float64(n)/float64(div), suffix)
}

// formatUptime renders seconds as "N secs", "N mins", or
// "H hrs, M mins", with singular forms for 1.
func formatUptime(secs uint64) string {
	switch {
	case secs < 60:
		return fmt.Sprintf("%d sec%s", secs, plural(secs))
	case secs < 3600:
		mins := secs / 60
		return fmt.Sprintf("%d min%s", mins, plural(mins))
	default:
		hrs, mins := secs/3600, (secs%3600)/60
		return fmt.Sprintf("%d hr%s, %d min%s", hrs, plural(hrs), mins, plural(mins))
	}
}

func plural(n uint64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
