// Command hashpass prints the bcrypt hash to put in ADMIN_PASSWORD_HASH.
//
//	hashpass [--cost N] < password.txt
//	hashpass --password 's3cret'
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-booking-manager/internal/utils"
)

func main() {
	cost := pflag.IntP("cost", "c", bcrypt.DefaultCost, "bcrypt cost")
	password := pflag.StringP("password", "p", "", "password to hash; read from stdin when empty")
	pflag.Parse()

	plain := *password
	if plain == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("hashpass: reading password: %v", err)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		log.Fatal("hashpass: empty password")
	}

	hash, err := utils.HashPassword(plain, *cost)
	if err != nil {
		log.Fatalf("hashpass: %v", err)
	}
	fmt.Println(hash)
}
