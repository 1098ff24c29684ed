// Minimal end-to-end integration test for the Lowball API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080/v1")
	adminPwd = getenv("ADMIN_PASSWORD", "hunter2")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	voteID := castVote(400)
	checkResult(voteID)
	checkStats()

	token := login()
	conID := createConstraint(token)
	toggleConstraint(token, conID)
	deleteConstraint(token, conID)

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- votes

func castVote(value int64) uint64 {
	var resp struct{ ID uint64 }
	doJSON("POST", "/votes", map[string]any{"value": value}, &resp, http.StatusCreated)
	if resp.ID == 0 {
		log.Fatal("votes: empty id")
	}
	return resp.ID
}

func checkResult(id uint64) {
	var resp struct {
		Average    *float64 `json:"average"`
		Target     *float64 `json:"target"`
		TotalVotes int      `json:"totalVotes"`
	}
	doJSON("GET", fmt.Sprintf("/votes/%d/result", id), nil, &resp, http.StatusOK)
	if resp.Average == nil || resp.Target == nil || resp.TotalVotes == 0 {
		log.Fatal("result: missing stats for a non-empty game")
	}
	if *resp.Target != *resp.Average/2 {
		log.Fatalf("result: target %f is not half of average %f", *resp.Target, *resp.Average)
	}
}

func checkStats() {
	var resp struct{ TotalVotes int }
	doJSON("GET", "/stats", nil, &resp, http.StatusOK)
	if resp.TotalVotes == 0 {
		log.Fatal("stats: no votes counted")
	}
}

// ----------------------------- admin

func login() string {
	var resp struct{ Token string }
	doJSON("POST", "/admin/login", map[string]any{"password": adminPwd}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("login: empty token")
	}
	return resp.Token
}

func createConstraint(tok string) uint64 {
	var resp struct{ ID uint64 }
	doAuth(tok, "POST", "/admin/constraints", map[string]any{
		"startAt": time.Now().Add(-time.Hour),
		"endAt":   time.Now().Add(time.Hour),
		"kind":    "include",
		"note":    "smoke test window",
	}, &resp, http.StatusCreated)
	return resp.ID
}

func toggleConstraint(tok string, id uint64) {
	doAuth(tok, "POST", fmt.Sprintf("/admin/constraints/%d/toggle", id), nil, nil, http.StatusOK)
}

func deleteConstraint(tok string, id uint64) {
	doAuth(tok, "DELETE", fmt.Sprintf("/admin/constraints/%d", id), nil, nil, http.StatusNoContent)
}

// ----------------------------- helpers

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
