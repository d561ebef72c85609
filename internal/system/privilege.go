package system

import (
	"fmt"
	"os"

	"github.com/tradeops/botstrap/internal/config"
)

// CheckPrivilege verifies the effective uid satisfies the selected mode:
// root for production, anything for development. It runs before any
// mutation; later components assume it has passed.
func CheckPrivilege(mode config.Mode, euid int) error {
	if mode == config.ModeProduction && euid != 0 {
		return fmt.Errorf("%w: production provisioning must run as root (euid %d)", ErrPrivilege, euid)
	}
	return nil
}

// Euid returns the effective uid of the current process.
func Euid() int {
	return os.Geteuid()
}
