package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OficinaTornearia/api-tornearia/internal/cliente"
	"github.com/OficinaTornearia/api-tornearia/internal/config"
	"github.com/OficinaTornearia/api-tornearia/internal/database"
	"github.com/OficinaTornearia/api-tornearia/internal/httpresp"
	"github.com/OficinaTornearia/api-tornearia/internal/imagens"
	"github.com/OficinaTornearia/api-tornearia/internal/pedido"
	"github.com/OficinaTornearia/api-tornearia/internal/servico"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN, cfg.DBPath)
	if err != nil {
		logger.Fatal("erro ao conectar no banco", zap.Error(err))
	}
	defer database.Close(db)

	// AutoMigrate para todos os modelos, incluindo a FK de serviços
	if err := db.AutoMigrate(
		&cliente.Cliente{},
		&servico.Servico{},
		&pedido.Pedido{},
	); err != nil {
		logger.Fatal("erro no AutoMigrate", zap.Error(err))
	}

	gerenciadorImagens, err := imagens.NovoManager(cfg.ImagensDir)
	if err != nil {
		logger.Fatal("erro ao preparar o diretório de imagens", zap.Error(err))
	}

	// Handlers
	clienteHandler := cliente.NewHandler(db)
	pedidoHandler := pedido.NewHandler(db)
	servicoHandler := servico.NewHandler(db, gerenciadorImagens, logger)

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		httpresp.Mensagem(w, http.StatusOK, "API Tornearia no ar")
	}).Methods("GET")

	// Rotas de clientes
	r.HandleFunc("/clientes", clienteHandler.CriarCliente).Methods("POST")
	r.HandleFunc("/clientes", clienteHandler.ListarClientes).Methods("GET")
	r.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/clientes/{id}", clienteHandler.AtualizarCliente).Methods("PUT", "PATCH")
	r.HandleFunc("/clientes/{id}", clienteHandler.DeletarCliente).Methods("DELETE")
	r.HandleFunc("/clientes/{id}/servicos", servicoHandler.ListarPorCliente).Methods("GET")

	// Rotas de pedidos de material
	r.HandleFunc("/pedidos", pedidoHandler.CriarPedido).Methods("POST")
	r.HandleFunc("/pedidos", pedidoHandler.ListarPedidos).Methods("GET")
	r.HandleFunc("/pedidos/{id}", pedidoHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/pedidos/{id}", pedidoHandler.AtualizarParcial).Methods("PATCH")
	r.HandleFunc("/pedidos/{id}", pedidoHandler.DeletarPedido).Methods("DELETE")

	// Rotas de serviços
	r.HandleFunc("/servicos", servicoHandler.CriarServico).Methods("POST")
	r.HandleFunc("/servicos", servicoHandler.ListarServicos).Methods("GET")
	r.HandleFunc("/servicos/images/{arquivo}", servicoHandler.BuscarImagem).Methods("GET")
	r.HandleFunc("/servicos/{id}", servicoHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/servicos/{id}", servicoHandler.AtualizarServico).Methods("PUT")
	r.HandleFunc("/servicos/{id}", servicoHandler.AtualizarParcial).Methods("PATCH")
	r.HandleFunc("/servicos/{id}", servicoHandler.DeletarServico).Methods("DELETE")

	// a UI roda em outra origem dentro do shell desktop
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}

	go func() {
		logger.Info("servidor rodando", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("erro no servidor HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("erro ao encerrar o servidor", zap.Error(err))
	}
	logger.Info("servidor encerrado")
}
