// Утилита генерации хеша пароля администратора для ADMIN_PASSWORD_HASH.
//
// Использование:
//
//	go run scripts/generate_hash.go <пароль>
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id. Должны совпадать с проверкой в internal/features/admin.
const (
	memory      = 64 * 1024
	iterations  = 3
	parallelism = 2
	saltLength  = 16
	keyLength   = 32
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Использование: go run scripts/generate_hash.go <пароль>")
		os.Exit(1)
	}
	password := os.Args[1]

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка генерации соли: %v\n", err)
		os.Exit(1)
	}

	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	fmt.Println("Добавь в .env:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", encoded)
}
