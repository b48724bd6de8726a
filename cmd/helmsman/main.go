package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

// login abre sesión como el admin de plataforma y deja la cookie en el jar.
func (c *client) login(identifier, password string) error {
	if identifier == "" || password == "" {
		return fmt.Errorf("faltan credenciales (flags --identifier/--password o env HELMSMAN_ADMIN_IDENTIFIER/HELMSMAN_ADMIN_PASSWORD)")
	}
	b, _ := json.Marshal(map[string]any{
		"identifier": identifier,
		"password":   password,
	})
	status, body, err := c.do("POST", "/v1/auth/login", b)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("login fallo: status=%d body=%s", status, string(body))
	}
	return nil
}

func main() {
	var (
		baseURL    = envOr("HELMSMAN_URL", "http://localhost:8080")
		identifier = envOr("HELMSMAN_ADMIN_IDENTIFIER", "")
		password   = envOr("HELMSMAN_ADMIN_PASSWORD", "")
		out        = envOr("HELMSMAN_OUT", "text")
		timeout    = 30 * time.Second
	)

	jar, _ := cookiejar.New(nil)
	cl := &client{
		BaseURL:   baseURL,
		OutFormat: out,
		HTTP:      &http.Client{Timeout: timeout, Jar: jar},
	}

	root := &cobra.Command{
		Use:   "helmsman",
		Short: "CLI admin para Helmsman (solo /v1/admin)",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env HELMSMAN_URL)")
	root.PersistentFlags().StringVar(&identifier, "identifier", identifier, "Email o username del admin (env HELMSMAN_ADMIN_IDENTIFIER)")
	root.PersistentFlags().StringVar(&password, "password", password, "Password del admin (env HELMSMAN_ADMIN_PASSWORD)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operaciones administrativas (vía /v1/admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cl.BaseURL = baseURL
			cl.OutFormat = out
			return cl.login(identifier, password)
		},
	}

	// ping: GET /v1/auth/me con la sesión recién abierta
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica credenciales y conectividad",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/auth/me", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping fallo: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	// impersonate start
	var impTarget string
	impersonateCmd := &cobra.Command{
		Use:   "impersonate",
		Short: "Armar un marker de impersonación single-use para un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if impTarget == "" {
				return fmt.Errorf("--target es requerido")
			}
			b, _ := json.Marshal(map[string]any{"target_id": impTarget})
			status, body, err := cl.do("POST", "/v1/admin/impersonate", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("impersonate fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	impersonateCmd.Flags().StringVar(&impTarget, "target", "", "ID del usuario objetivo")

	// gate check
	var gateYacht, gateFeature, gateLimit string
	var gateCurrent int
	gateCmd := &cobra.Command{
		Use:   "gate",
		Short: "Consultar el gate de plan de un yate (feature o límite)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gateYacht == "" {
				return fmt.Errorf("--yacht es requerido")
			}
			if gateFeature == "" && gateLimit == "" {
				return fmt.Errorf("se requiere --feature o --limit")
			}
			q := url.Values{}
			if gateFeature != "" {
				q.Set("feature", gateFeature)
			}
			if gateLimit != "" {
				q.Set("limit", gateLimit)
				q.Set("current", fmt.Sprintf("%d", gateCurrent))
			}
			path := "/v1/admin/yachts/" + url.PathEscape(gateYacht) + "/gate?" + q.Encode()
			status, body, err := cl.do("GET", path, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("gate fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	gateCmd.Flags().StringVar(&gateYacht, "yacht", "", "ID del yate")
	gateCmd.Flags().StringVar(&gateFeature, "feature", "", "Feature a consultar (module:tasks, module:trips, ...)")
	gateCmd.Flags().StringVar(&gateLimit, "limit", "", "Límite a consultar (crew_members, active_trips, ...)")
	gateCmd.Flags().IntVar(&gateCurrent, "current", 0, "Uso actual contra el límite")

	adminCmd.AddCommand(pingCmd)
	adminCmd.AddCommand(impersonateCmd)
	adminCmd.AddCommand(gateCmd)
	root.AddCommand(adminCmd)
	root.AddCommand(seedCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
