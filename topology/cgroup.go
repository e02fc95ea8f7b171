package topology

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// ReadContainerQuota reads the cgroup v2 cpu.max file, falling back to
// cgroup v1's cpu.cfs_quota_us/cpu.cfs_period_us pair, and returns the
// effective whole-CPU limit. It returns a zero Quota (no limit observed)
// when neither file is present or parseable — the caller then falls back
// to GOMAXPROCS, per spec.md §6.
func ReadContainerQuota() Quota {
	if q, ok := readCgroupV2("/sys/fs/cgroup/cpu.max"); ok {
		return q
	}
	if q, ok := readCgroupV1(
		"/sys/fs/cgroup/cpu/cpu.cfs_quota_us",
		"/sys/fs/cgroup/cpu/cpu.cfs_period_us",
	); ok {
		return q
	}
	return Quota{}
}

func readCgroupV2(path string) (Quota, bool) {
	line, ok := readFirstLine(path)
	if !ok {
		return Quota{}, false
	}
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] == "max" {
		return Quota{}, false
	}
	quota, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quota{}, false
	}
	period, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || period <= 0 {
		return Quota{}, false
	}
	return quotaFromRatio(quota / period)
}

func readCgroupV1(quotaPath, periodPath string) (Quota, bool) {
	quotaLine, ok := readFirstLine(quotaPath)
	if !ok {
		return Quota{}, false
	}
	quota, err := strconv.ParseFloat(strings.TrimSpace(quotaLine), 64)
	if err != nil || quota <= 0 {
		return Quota{}, false
	}
	periodLine, ok := readFirstLine(periodPath)
	if !ok {
		return Quota{}, false
	}
	period, err := strconv.ParseFloat(strings.TrimSpace(periodLine), 64)
	if err != nil || period <= 0 {
		return Quota{}, false
	}
	return quotaFromRatio(quota / period)
}

func quotaFromRatio(cpus float64) (Quota, bool) {
	limit := int(cpus)
	if cpus-float64(limit) > 0 {
		limit++ // round up: a 2.5-CPU quota still needs 3 workers to exploit it.
	}
	if limit <= 0 {
		return Quota{}, false
	}
	return Quota{Limit: limit}, true
}

func readFirstLine(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}
