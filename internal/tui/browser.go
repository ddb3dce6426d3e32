package tui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openURL открывает адрес в браузере по умолчанию средствами ОС.
// Аргументы передаются вектором, без интерпретации оболочкой.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("не удалось открыть браузер: %w", err)
	}
	// Не ждем завершения: браузер живет своей жизнью.
	return cmd.Process.Release()
}
