package tcexec

import (
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/utils/exec"

	"github.com/liangwei1988/tcconfig/pkg/utils"
)

// sbin directories are commonly missing from non root PATH
var extraSearchPaths = []string{"/sbin", "/usr/sbin"}

var (
	binPathCacheLock sync.Mutex
	binPathCache     = map[string]string{}
)

// FindBinPath returns the absolute path of the named binary, searching PATH
// first then the sbin directories. Results are memoized process wide.
func FindBinPath(executor exec.Interface, name string) (string, error) {
	binPathCacheLock.Lock()
	defer binPathCacheLock.Unlock()

	if path, ok := binPathCache[name]; ok {
		return path, nil
	}

	path, err := executor.LookPath(name)
	if err == nil {
		binPathCache[name] = path
		return path, nil
	}

	for _, dir := range extraSearchPaths {
		candidate := filepath.Join(dir, name)
		if exists, _ := utils.PathExists(candidate); exists {
			binPathCache[name] = candidate
			return candidate, nil
		}
	}

	return "", errors.Errorf("command not found: %s", name)
}

// CheckCommandInstallation returns an error if the named command is not
// installed on the host
func CheckCommandInstallation(executor exec.Interface, name string) error {
	_, err := FindBinPath(executor, name)
	return err
}
