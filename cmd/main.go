package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"farmastock/config"
	"farmastock/internal/pkg/cache"
	"farmastock/internal/pkg/database"
	"farmastock/internal/pkg/logger"
	"farmastock/internal/pkg/middleware"
	"farmastock/internal/pkg/token"

	// Camadas da API para Injeção de Dependências
	"farmastock/internal/api/batch"
	"farmastock/internal/api/doctor"
	"farmastock/internal/api/inventory"
	"farmastock/internal/api/medication"
	"farmastock/internal/api/patient"
	"farmastock/internal/api/router"
	"farmastock/internal/api/stockcontrol"
	"farmastock/internal/api/supplier"
	"farmastock/internal/api/user"
	"farmastock/internal/repository/batchrepo"
	"farmastock/internal/repository/doctorrepo"
	"farmastock/internal/repository/inventoryrepo"
	"farmastock/internal/repository/medicationrepo"
	"farmastock/internal/repository/patientrepo"
	"farmastock/internal/repository/stockcontrolrepo"
	"farmastock/internal/repository/supplierrepo"
	"farmastock/internal/repository/userrepo"
	"farmastock/internal/service/batchservice"
	"farmastock/internal/service/doctorservice"
	"farmastock/internal/service/inventoryservice"
	"farmastock/internal/service/medicationservice"
	"farmastock/internal/service/patientservice"
	"farmastock/internal/service/stockcontrolservice"
	"farmastock/internal/service/supplierservice"
	"farmastock/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço FarmaStock...")

	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	// Sem o arquivo, as variáveis essenciais podem estar no ambiente do
	// sistema (ex: Docker), então apenas avisamos.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)

	// A. Repositórios (Camada de Acesso a Dados)
	supplierRepo := supplierrepo.NewSupplierRepository(db, cfg.DBTimeout, log)
	medicationRepo := medicationrepo.NewMedicationRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	batchRepo := batchrepo.NewBatchRepository(db, cfg.DBTimeout, log)
	inventoryRepo := inventoryrepo.NewInventoryRepository(db, cfg.DBTimeout, log)
	patientRepo := patientrepo.NewPatientRepository(db, cfg.DBTimeout, log)
	doctorRepo := doctorrepo.NewDoctorRepository(db, cfg.DBTimeout, log)
	controlRepo := stockcontrolrepo.NewStockControlRepository(db, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	supplierSvc := supplierservice.NewService(supplierRepo, medicationRepo, log)
	medicationSvc := medicationservice.NewService(medicationRepo, supplierRepo, batchRepo, log)
	batchSvc := batchservice.NewService(batchRepo, medicationRepo, inventoryRepo, log)
	inventorySvc := inventoryservice.NewService(inventoryRepo, batchRepo, log)
	patientSvc := patientservice.NewService(patientRepo, log)
	doctorSvc := doctorservice.NewService(doctorRepo, log)
	controlSvc := stockcontrolservice.NewService(controlRepo, inventoryRepo, doctorRepo, patientRepo, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	handlers := router.Handlers{
		Supplier:     supplier.NewHandler(supplierSvc, log),
		Medication:   medication.NewHandler(medicationSvc, log),
		Batch:        batch.NewHandler(batchSvc, log),
		Inventory:    inventory.NewHandler(inventorySvc, log),
		Patient:      patient.NewHandler(patientSvc, log),
		Doctor:       doctor.NewHandler(doctorSvc, log),
		StockControl: stockcontrol.NewHandler(controlSvc, log),
		User:         user.NewHandler(userSvc, log),
	}
	log.Debug("Handlers inicializados.", nil)

	// 4. Roteador e Servidor
	mux := router.New(handlers, tokenSvc)
	rateLimited := middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rateLimited,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor FarmaStock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
