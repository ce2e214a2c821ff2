package walletloader

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"nest_dashboard/internal/app/port"
)

// WalletFileLoader implements port.AccountProvider by reading the connected
// account address from a file. The first valid address wins; a missing or
// empty file means no account is connected.
type WalletFileLoader struct {
	filePath   string
	loggerInfo func(msg string, args ...any)

	once    sync.Once
	address string
}

// NewWalletFileLoader creates a new WalletFileLoader.
func NewWalletFileLoader(filePath string, loggerInfo func(msg string, args ...any)) port.AccountProvider {
	return &WalletFileLoader{
		filePath:   filePath,
		loggerInfo: loggerInfo,
	}
}

// CurrentAddress returns the connected account address, or "" when none.
func (l *WalletFileLoader) CurrentAddress() string {
	l.once.Do(l.load)
	return l.address
}

func (l *WalletFileLoader) load() {
	file, err := os.Open(l.filePath)
	if err != nil {
		if l.loggerInfo != nil {
			l.loggerInfo("Wallet file not available, running disconnected", "path", l.filePath, "error", err)
		}
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !(strings.HasPrefix(line, "0x") && len(line) == 42) {
			if l.loggerInfo != nil {
				l.loggerInfo("Skipping invalid wallet address format", "file", l.filePath, "line_number", lineNum, "address", line)
			}
			continue
		}
		l.address = line
		break
	}

	if l.loggerInfo != nil {
		if l.address != "" {
			l.loggerInfo("Connected account loaded from file", "address", l.address, "path", l.filePath)
		} else {
			l.loggerInfo("No valid wallet address found, running disconnected", "path", l.filePath)
		}
	}
}
