// Package router monta o http.ServeMux da API a partir de uma tabela
// declarativa de rotas. Cada rota nomeia o padrão (método + caminho), o
// handler e o conjunto de papéis autorizados; rotas sem papéis são públicas.
package router

import (
	"net/http"

	"farmastock/internal/api/batch"
	"farmastock/internal/api/doctor"
	"farmastock/internal/api/inventory"
	"farmastock/internal/api/medication"
	"farmastock/internal/api/patient"
	"farmastock/internal/api/respond"
	"farmastock/internal/api/stockcontrol"
	"farmastock/internal/api/supplier"
	"farmastock/internal/api/user"
	"farmastock/internal/domain"
	"farmastock/internal/pkg/middleware"
)

// Handlers agrupa todos os handlers da API para a montagem das rotas.
type Handlers struct {
	Supplier     *supplier.Handler
	Medication   *medication.Handler
	Batch        *batch.Handler
	Inventory    *inventory.Handler
	Patient      *patient.Handler
	Doctor       *doctor.Handler
	StockControl *stockcontrol.Handler
	User         *user.Handler
}

// route é uma linha da tabela de rotas: padrão, handler e papéis autorizados.
// roles vazio significa rota pública (sem autenticação).
type route struct {
	pattern string
	handler http.HandlerFunc
	roles   []domain.UserRole
}

// Conjuntos de papéis reutilizados pela tabela de rotas.
var (
	staff     = []domain.UserRole{domain.RoleAdmin, domain.RolePharmacist}
	clinical  = []domain.UserRole{domain.RoleAdmin, domain.RolePharmacist, domain.RoleDoctor}
	everyone  = []domain.UserRole{domain.RoleAdmin, domain.RolePharmacist, domain.RoleDoctor, domain.RolePatient}
	adminOnly = []domain.UserRole{domain.RoleAdmin}

	// public marca rotas acessíveis sem autenticação.
	public []domain.UserRole
)

// New monta o mux da API: resolve a tabela de rotas, encadeando autenticação
// e autorização por papel onde a rota exige.
func New(h Handlers, tokenSvc middleware.TokenService) *http.ServeMux {
	mux := http.NewServeMux()
	authenticate := middleware.Authenticate(tokenSvc)

	routes := []route{
		// Infra
		{"GET /ping", ping, public},

		// Autenticação
		{"POST /v1/auth/register", h.User.Register, public},
		{"POST /v1/auth/login", h.User.Login, public},
		{"GET /v1/me", h.User.Profile, everyone},

		// Fornecedores
		{"POST /v1/suppliers", h.Supplier.Create, staff},
		{"GET /v1/suppliers", h.Supplier.GetAll, staff},
		{"GET /v1/suppliers/{id}", h.Supplier.GetByID, staff},
		{"PUT /v1/suppliers/{id}", h.Supplier.Update, staff},
		{"DELETE /v1/suppliers/{id}", h.Supplier.Delete, adminOnly},

		// Medicamentos
		{"POST /v1/medications", h.Medication.Create, staff},
		{"GET /v1/medications", h.Medication.GetAll, everyone},
		{"GET /v1/medications/{id}", h.Medication.GetByID, everyone},
		{"PUT /v1/medications/{id}", h.Medication.Update, staff},
		{"DELETE /v1/medications/{id}", h.Medication.Delete, adminOnly},

		// Lotes
		{"POST /v1/batches", h.Batch.Create, staff},
		{"GET /v1/batches", h.Batch.GetAll, staff},
		{"GET /v1/batches/expired", h.Batch.GetExpired, staff},
		{"GET /v1/batches/near-expiry", h.Batch.GetNearExpiry, staff},
		{"GET /v1/batches/{id}", h.Batch.GetByID, staff},
		{"GET /v1/batches/{id}/expired", h.Batch.GetIsExpired, staff},
		{"PUT /v1/batches/{id}", h.Batch.Update, staff},
		{"DELETE /v1/batches/{id}", h.Batch.Delete, adminOnly},

		// Posições de estoque
		{"POST /v1/inventories", h.Inventory.Create, staff},
		{"GET /v1/inventories", h.Inventory.GetAll, clinical},
		{"GET /v1/inventories/{id}", h.Inventory.GetByID, clinical},
		{"GET /v1/inventories/{id}/availability", h.Inventory.CheckAvailability, clinical},
		{"PATCH /v1/inventories/{id}/quantity", h.Inventory.Adjust, staff},
		{"PUT /v1/inventories/{id}", h.Inventory.Update, staff},
		{"DELETE /v1/inventories/{id}", h.Inventory.Delete, adminOnly},

		// Pacientes
		{"POST /v1/patients", h.Patient.Create, clinical},
		{"GET /v1/patients", h.Patient.GetAll, clinical},
		{"GET /v1/patients/{id}", h.Patient.GetByID, clinical},
		{"PUT /v1/patients/{id}", h.Patient.Update, clinical},
		{"DELETE /v1/patients/{id}", h.Patient.Delete, adminOnly},

		// Médicos
		{"POST /v1/doctors", h.Doctor.Create, staff},
		{"GET /v1/doctors", h.Doctor.GetAll, clinical},
		{"GET /v1/doctors/{id}", h.Doctor.GetByID, clinical},
		{"PUT /v1/doctors/{id}", h.Doctor.Update, staff},
		{"DELETE /v1/doctors/{id}", h.Doctor.Delete, adminOnly},

		// Solicitações de medicamento
		{"POST /v1/stock-controls", h.StockControl.Create, clinical},
		{"GET /v1/stock-controls", h.StockControl.GetAll, clinical},
		{"GET /v1/stock-controls/report", h.StockControl.Report, staff},
		{"GET /v1/stock-controls/{id}", h.StockControl.GetByID, clinical},
		{"PUT /v1/stock-controls/{id}", h.StockControl.Update, clinical},
		{"PATCH /v1/stock-controls/{id}/status", h.StockControl.UpdateStatus, staff},
		{"DELETE /v1/stock-controls/{id}", h.StockControl.Delete, adminOnly},
	}

	for _, rt := range routes {
		handler := rt.handler
		if len(rt.roles) > 0 {
			handler = authenticate(middleware.RequireRoles(rt.roles...)(handler))
		}
		mux.HandleFunc(rt.pattern, handler)
	}

	return mux
}

// ping é o health check da API.
func ping(w http.ResponseWriter, _ *http.Request) {
	respond.Success(w, http.StatusOK, "pong", nil)
}
