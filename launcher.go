// launcher поднимает сервер магазина и собирает shopctl для локальной разработки.
//
//	go run launcher.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Запуск Shop API...")

	// .env нужен серверу для DATABASE_DSN и JWT_SIGNING_KEY
	if err := godotenv.Load(); err != nil {
		fmt.Println("Файл .env не найден, используются переменные окружения")
	}
	for _, key := range []string{"DATABASE_DSN", "JWT_SIGNING_KEY"} {
		if os.Getenv(key) == "" {
			fmt.Printf("Не задана переменная %s (см. .env.example)\n", key)
			return
		}
	}

	clientName := "shopctl"
	if runtime.GOOS == "windows" {
		clientName = "shopctl.exe"
	}
	// сервер запускаем на фоне, окружение наследуется
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	server.Env = os.Environ()

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)
	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/shopctl")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
		}
	}

	fmt.Println("Сервер запущен")
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\shopctl.exe --help")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./shopctl --help")
	}

	server.Wait()
}
