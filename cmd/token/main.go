// token emite un JWT firmado para probar la API en local.
//
// Uso: go run ./cmd/token [tenant_id] [role] [user_id]
// Por defecto: tenant "demo", rol "admin", usuario "dev". El secreto, el emisor
// y la expiración salen de la misma configuración que la API (JWT_SECRET, etc.).
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	tenantID, role, userID := "demo", "admin", "dev"
	if len(os.Args) > 1 {
		tenantID = os.Args[1]
	}
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if len(os.Args) > 3 {
		userID = os.Args[3]
	}

	token, err := jwt.Generate(cfg.JWT.Secret, userID, tenantID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
