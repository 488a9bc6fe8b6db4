package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Auth endpoints (e2e)", Ordered, func() {
	var ts *httptest.Server

	BeforeAll(func() {
		ts = newTestServerFromConfig(TestConfigPath)
	})

	AfterAll(func() {
		ts.Close()
	})

	It("registers a new user", func() {
		resp, body := doJSON(ts, http.MethodPost, "/api/register", "", map[string]string{
			"username": "alice",
			"password": "Secr3t!",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		Expect(string(body)).NotTo(ContainSubstring("password_hash"), "hashes must not serialize")
	})

	It("rejects a duplicate registration with 409", func() {
		resp, _ := doJSON(ts, http.MethodPost, "/api/register", "", map[string]string{
			"username": "alice",
			"password": "Another1!",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusConflict))
	})

	It("rejects registration without a password with 400", func() {
		resp, _ := doJSON(ts, http.MethodPost, "/api/register", "", map[string]string{
			"username": "bob",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects a non-json registration body", func() {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/register", nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err := ts.Client().Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = resp.Body.Close() }()
		Expect(resp.StatusCode).To(Equal(http.StatusUnsupportedMediaType))
	})

	It("logs a user in and returns a session token", func() {
		token := login(ts, "/api/login", "alice", "Secr3t!")
		Expect(token).NotTo(BeEmpty())
	})

	It("rejects a wrong password with 401", func() {
		resp, _ := doJSON(ts, http.MethodPost, "/api/login", "", map[string]string{
			"username": "alice",
			"password": "wrong",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an unknown user with the same 401", func() {
		resp, _ := doJSON(ts, http.MethodPost, "/api/login", "", map[string]string{
			"username": "ghost",
			"password": "Secr3t!",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("invalidates the session on logout", func() {
		token := login(ts, "/api/login", "alice", "Secr3t!")

		resp, _ := doJSON(ts, http.MethodGet, "/api/files", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		resp, _ = doJSON(ts, http.MethodPost, "/api/logout", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

		resp, _ = doJSON(ts, http.MethodGet, "/api/files", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("logout is idempotent", func() {
		resp, _ := doJSON(ts, http.MethodPost, "/api/logout", "never-was-a-token", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
	})

	It("admin login works with the configured credential", func() {
		token := login(ts, "/api/admin/login", "admin", "test-admin-secret")
		Expect(token).NotTo(BeEmpty())
	})

	It("admin credentials do not work on the user login endpoint", func() {
		resp, _ := doJSON(ts, http.MethodPost, "/api/login", "", map[string]string{
			"username": "admin",
			"password": "test-admin-secret",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("admin session lists users but cannot touch files", func() {
		token := login(ts, "/api/admin/login", "admin", "test-admin-secret")

		resp, body := doJSON(ts, http.MethodGet, "/api/admin/users", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		var users []map[string]any
		Expect(json.Unmarshal(body, &users)).To(Succeed())
		Expect(len(users)).To(BeNumerically(">=", 1))
		Expect(string(body)).NotTo(ContainSubstring("password_hash"))

		resp, _ = doJSON(ts, http.MethodGet, "/api/files", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})

	It("user session cannot reach the admin surface", func() {
		token := login(ts, "/api/login", "alice", "Secr3t!")
		resp, _ := doJSON(ts, http.MethodGet, "/api/admin/users", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusForbidden))
	})
})
