package signup_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"JewelStore/internal/signup"
)

// fakeViaCEP mimics the ViaCEP wire contract: 200 with fields for a
// known CEP, 200 with {"erro": true} for an unknown one.
func fakeViaCEP(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/01310100/json/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	})
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"erro": true}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newSignupTS(t *testing.T) *httptest.Server {
	t.Helper()

	via := fakeViaCEP(t)
	s := &signup.Server{CEP: signup.NewCEPClient(via.URL), Log: zap.NewNop()}
	ts := httptest.NewServer(signup.NewHandler(s, signup.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "signup",
	}))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp, raw
}

func validSignup() map[string]any {
	return map[string]any{
		"first_name":       "Maria",
		"last_name":        "Silva",
		"cpf":              "12345678909",
		"phone":            "11987654321",
		"email":            "Maria@Example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
		"address": map[string]any{
			"cep":          "01310100",
			"street":       "Avenida Paulista",
			"number":       "1000",
			"neighborhood": "Bela Vista",
			"city":         "São Paulo",
			"state":        "SP",
		},
	}
}

func TestSignup_NormalizesProfile(t *testing.T) {
	ts := newSignupTS(t)

	resp, raw := postJSON(t, ts.URL+"/signup", validSignup())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}

	var p struct {
		CPF     string `json:"cpf"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address struct {
			CEP string `json:"cep"`
		} `json:"address"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.CPF != "123.456.789-09" {
		t.Errorf("cpf=%q", p.CPF)
	}
	if p.Phone != "(11) 98765-4321" {
		t.Errorf("phone=%q", p.Phone)
	}
	if p.Email != "maria@example.com" {
		t.Errorf("email=%q", p.Email)
	}
	if p.Address.CEP != "01310-100" {
		t.Errorf("cep=%q", p.Address.CEP)
	}
}

func TestSignup_PasswordMismatch(t *testing.T) {
	ts := newSignupTS(t)

	body := validSignup()
	body["confirm_password"] = "different"

	resp, raw := postJSON(t, ts.URL+"/signup", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
}

func TestSignup_MissingFields(t *testing.T) {
	ts := newSignupTS(t)

	body := validSignup()
	body["first_name"] = ""
	delete(body, "email")

	resp, raw := postJSON(t, ts.URL+"/signup", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}

	var er struct {
		Details struct {
			Fields []string `json:"fields"`
		} `json:"details"`
	}
	if err := json.Unmarshal(raw, &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(er.Details.Fields) != 2 {
		t.Fatalf("fields=%v", er.Details.Fields)
	}
}

func TestSignup_InvalidDocuments(t *testing.T) {
	ts := newSignupTS(t)

	body := validSignup()
	body["cpf"] = "123"
	resp, _ := postJSON(t, ts.URL+"/signup", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short cpf status=%d", resp.StatusCode)
	}

	body = validSignup()
	body["phone"] = "119"
	resp, _ = postJSON(t, ts.URL+"/signup", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short phone status=%d", resp.StatusCode)
	}
}

func TestAddress_ResolvesKnownCEP(t *testing.T) {
	ts := newSignupTS(t)

	resp, err := http.Get(ts.URL + "/address/01310-100")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	var a signup.Address
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Street != "Avenida Paulista" || a.City != "São Paulo" || a.State != "SP" {
		t.Fatalf("address: %+v", a)
	}
	if a.CEP != "01310-100" {
		t.Fatalf("cep=%q", a.CEP)
	}
}

func TestAddress_UnknownCEPIs404(t *testing.T) {
	ts := newSignupTS(t)

	resp, err := http.Get(ts.URL + "/address/99999999")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestAddress_MalformedCEPIs400(t *testing.T) {
	ts := newSignupTS(t)

	resp, err := http.Get(ts.URL + "/address/123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
