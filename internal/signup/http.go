package signup

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"JewelStore/pkg/brdoc"
	"JewelStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	CEP *CEPClient
	Log *zap.Logger
}

type addressReq struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type signupReq struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	CPF             string     `json:"cpf"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirm_password"`
	Address         addressReq `json:"address"`
}

// profile is the normalized registration record echoed back. The flow is
// a mock: nothing is persisted and no credentials are stored.
type profile struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	CPF       string     `json:"cpf"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Address   addressReq `json:"address"`
}

func (s *Server) RegisterHandler() http.HandlerFunc { return s.register }
func (s *Server) AddressHandler() http.HandlerFunc  { return s.address }

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSignupRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if missing := missingFields(req); len(missing) > 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "missing fields", map[string]any{"fields": missing})
		return
	}
	if req.Password != req.ConfirmPassword {
		// Surfaced as a user-visible message, mirroring the form toast.
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "as senhas não coincidem", nil)
		return
	}
	if !brdoc.ValidCPF(req.CPF) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid cpf", nil)
		return
	}
	if n := len(brdoc.Digits(req.Phone)); n < 10 || n > 11 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid phone", nil)
		return
	}
	if !brdoc.ValidCEP(req.Address.CEP) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid cep", nil)
		return
	}

	addr := req.Address
	addr.CEP = brdoc.FormatCEP(addr.CEP)

	kit.WriteJSON(w, http.StatusCreated, profile{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		CPF:       brdoc.FormatCPF(req.CPF),
		Phone:     brdoc.FormatPhone(req.Phone),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Address:   addr,
	})
}

func (s *Server) address(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")

	addr, err := s.CEP.Resolve(r.Context(), cep)
	switch {
	case err == nil:
		kit.WriteJSON(w, http.StatusOK, addr)
	case errors.Is(err, ErrCEPInvalid):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid cep", map[string]any{"cep": cep})
	case errors.Is(err, ErrCEPNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "cep not found", map[string]any{"cep": cep})
	case errors.Is(err, ErrCEPUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "address service unavailable", nil)
	default:
		if s.Log != nil {
			s.Log.Warn("cep lookup failed", zap.Error(err), zap.String("cep", cep))
		}
		kit.WriteError(w, r, http.StatusBadGateway, "address lookup failed", nil)
	}
}

func missingFields(req signupReq) []string {
	var missing []string
	require := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}

	require("first_name", req.FirstName)
	require("last_name", req.LastName)
	require("cpf", req.CPF)
	require("phone", req.Phone)
	require("email", req.Email)
	require("password", req.Password)
	require("confirm_password", req.ConfirmPassword)
	require("address.cep", req.Address.CEP)
	require("address.street", req.Address.Street)
	require("address.number", req.Address.Number)
	require("address.neighborhood", req.Address.Neighborhood)
	require("address.city", req.Address.City)
	require("address.state", req.Address.State)

	return missing
}

func decodeSignupRequest(w http.ResponseWriter, r *http.Request) (signupReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req signupReq
	if err := dec.Decode(&req); err != nil {
		return signupReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return signupReq{}, errors.New("extra data after json object")
	}
	return req, nil
}
