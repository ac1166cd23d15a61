// Command smoke-authz exercises a running API end to end: it mints tokens
// for a healthy and a misconfigured session and verifies that scoped access
// fails closed. Intended for deploy checks, not CI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"milltrace.org/internal/auth"
	"milltrace.org/internal/authz"
)

func main() {
	base := os.Getenv("MILLTRACE_API_ADDR")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}

	status, _, err := get(client, base+"/healthz", "")
	if err != nil || status != http.StatusOK {
		log.Fatalf("healthz: status=%d err=%v", status, err)
	}

	operator := authz.Session{
		UserID: "smoke-operator", Role: authz.RoleProductionOperator,
		TenantID: "smoke-tenant", MillID: "smoke-mill-a",
	}
	opToken, err := auth.GenerateToken(operator, 2*time.Minute)
	if err != nil {
		log.Fatalf("mint operator token: %v", err)
	}

	status, body, err := get(client, base+"/v1/batches", opToken)
	if err != nil || status != http.StatusOK {
		log.Fatalf("operator list batches: status=%d err=%v body=%s", status, err, body)
	}

	// A mill-scoped role without a mill id must be refused, not given an
	// empty list.
	broken := authz.Session{
		UserID: "smoke-broken", Role: authz.RoleLabTechnician, TenantID: "smoke-tenant",
	}
	brokenToken, err := auth.GenerateToken(broken, 2*time.Minute)
	if err != nil {
		log.Fatalf("mint broken token: %v", err)
	}
	status, _, err = get(client, base+"/v1/batches", brokenToken)
	if err != nil || status != http.StatusForbidden {
		log.Fatalf("expected 403 for mill-scoped session without mill, got %d err=%v", status, err)
	}

	status, body, err = get(client, base+"/v1/authz/roles", opToken)
	if err != nil || status != http.StatusOK {
		log.Fatalf("list roles: status=%d err=%v", status, err)
	}
	var roles struct {
		Roles []struct {
			Name string `json:"name"`
		} `json:"roles"`
	}
	if err := json.Unmarshal(body, &roles); err != nil || len(roles.Roles) == 0 {
		log.Fatalf("decode roles: %v", err)
	}

	fmt.Println("smoke-authz OK")
}

func get(client *http.Client, url, token string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, body, err
}
