package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maynagashev/oplaunch/internal/tui"
)

const (
	logDir             = "logs"
	logFileName        = "oplaunch.log"
	logFilePermissions = 0666
	// Имена переменных окружения для пути к бинарю op и хранилища по умолчанию.
	opPathEnvVar = "OPLAUNCH_OP_PATH"
	vaultEnvVar  = "OPLAUNCH_VAULT"
	// Имя бинаря по умолчанию: ищется в PATH.
	defaultOpPath = "op"
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
var (
	version = "dev" // Значение по умолчанию, если не установлено при сборке
	//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
	buildDate = "unknown" // Значение по умолчанию
	//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
	commitHash = "N/A" // Значение по умолчанию
)

// setupLogging настраивает логирование в файл logs/oplaunch.log.
// В stdout писать нельзя: его занимает TUI.
func setupLogging() {
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		// Используем panic, так как без логов продолжать нет смысла
		panic("Не удалось создать директорию для логов: " + err.Error())
	}
	logPath := filepath.Join(logDir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		panic("Не удалось открыть лог-файл: " + err.Error())
	}
	// Файл остается открытым на все время работы приложения; его закроет
	// ОС при завершении процесса.

	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath)
}

//nolint:funlen // Линейная инициализация
func main() {
	versionFlag := flag.Bool("version", false, "Показать версию и дату сборки")

	setupLogging()

	opPathFlag := flag.String("op-path", defaultOpPath, "Путь к бинарю 1Password CLI (переопределяет "+opPathEnvVar+")")
	vaultFlag := flag.String("vault", "", "Хранилище по умолчанию (переопределяет "+vaultEnvVar+")")
	debugModeFlag := flag.Bool("debug", false, "Включить режим отладки TUI")

	flag.Parse()

	if *versionFlag {
		// Используем стандартный log для вывода в консоль, так как slog настроен на файл
		log.SetOutput(os.Stdout)
		log.SetFlags(0)
		log.Println("oplaunch")
		log.Printf("Version: %s", version)
		log.Printf("Build Date: %s", buildDate)
		log.Printf("Commit Hash: %s", commitHash)
		os.Exit(0)
	}

	// Приоритет: явный флаг > переменная окружения > значение по умолчанию.
	opPath := defaultOpPath
	opPathSource := "по умолчанию"
	if envPath := os.Getenv(opPathEnvVar); envPath != "" {
		opPath = envPath
		opPathSource = "переменная окружения (" + opPathEnvVar + ")"
	}

	vault := os.Getenv(vaultEnvVar)
	vaultSource := "переменная окружения (" + vaultEnvVar + ")"
	if vault == "" {
		vaultSource = "не задано"
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "op-path":
			opPath = *opPathFlag
			opPathSource = "флаг -op-path"
		case "vault":
			vault = *vaultFlag
			vaultSource = "флаг -vault"
		}
	})

	if opPath == "" {
		slog.Error(
			"Путь к бинарю op не может быть пустым",
			"проверьте", "флаг -op-path и переменную окружения "+opPathEnvVar,
		)
		os.Exit(1)
	}

	slog.Info("Запуск oplaunch",
		"op_path", opPath,
		"op_path_source", opPathSource,
		"vault", vault,
		"vault_source", vaultSource,
		"debug_mode", *debugModeFlag,
	)

	if err := tui.Start(opPath, vault, *debugModeFlag); err != nil {
		slog.Error("Ошибка запуска приложения", "error", err)
		os.Exit(1)
	}
}
