package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/gasparhdz/lex-sub000/internal/advogado"
	"github.com/gasparhdz/lex-sub000/internal/alocacao"
	"github.com/gasparhdz/lex-sub000/internal/auth"
	"github.com/gasparhdz/lex-sub000/internal/conciliacao"
	"github.com/gasparhdz/lex-sub000/internal/despesa"
	"github.com/gasparhdz/lex-sub000/internal/honorario"
	"github.com/gasparhdz/lex-sub000/internal/indice"
	"github.com/gasparhdz/lex-sub000/internal/parcela"
	"github.com/gasparhdz/lex-sub000/internal/plano"
	"github.com/gasparhdz/lex-sub000/internal/recebimento"
	"github.com/gasparhdz/lex-sub000/internal/utils/db"
)

func main() {
	_ = godotenv.Load()

	conn, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := conn.AutoMigrate(
		&advogado.Advogado{},
		&indice.ValorIndice{},
		&honorario.Honorario{},
		&plano.Plano{},
		&parcela.Parcela{},
		&despesa.Despesa{},
		&recebimento.Recebimento{},
		&alocacao.Alocacao{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	if err := advogado.NewRepository(conn).SeedAdmin(); err != nil {
		log.Fatal("Erro ao criar administrador inicial:", err)
	}

	// Handlers
	indiceHandler := indice.NewHandler(indice.NewRepository(conn))
	honorarioHandler := honorario.NewHandler(honorario.NewRepository(conn))
	planoHandler := plano.NewHandler(conn)
	despesaHandler := despesa.NewHandler(despesa.NewRepository(conn))
	recebimentoHandler := recebimento.NewHandler(conn)
	alocacaoHandler := alocacao.NewHandler(conn)
	conciliacaoHandler := conciliacao.NewHandler(conn)

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/login", auth.LoginHandler(conn)).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	// Rotas de valores do índice
	api.HandleFunc("/valores-indice", indiceHandler.Criar).Methods("POST")
	api.HandleFunc("/valores-indice", indiceHandler.Listar).Methods("GET")
	api.HandleFunc("/valores-indice/vigente", indiceHandler.Vigente).Methods("GET")

	// Rotas de honorários
	api.HandleFunc("/honorarios", honorarioHandler.Criar).Methods("POST")
	api.HandleFunc("/honorarios", honorarioHandler.Listar).Methods("GET")
	api.HandleFunc("/honorarios/{id}", honorarioHandler.BuscarPorID).Methods("GET")

	// Rotas de planos de parcelamento
	api.HandleFunc("/honorarios/{id}/planos", planoHandler.Gerar).Methods("POST")
	api.HandleFunc("/honorarios/{id}/planos", planoHandler.ListarPorHonorario).Methods("GET")
	api.HandleFunc("/planos/{id}", planoHandler.BuscarPorID).Methods("GET")

	// Rotas de parcelas
	api.HandleFunc("/parcelas/{id}/status", alocacaoHandler.AtualizarStatusParcela).Methods("PATCH")

	// Rotas de despesas
	api.HandleFunc("/despesas", despesaHandler.Criar).Methods("POST")
	api.HandleFunc("/despesas", despesaHandler.Listar).Methods("GET")
	api.HandleFunc("/despesas/{id}", despesaHandler.BuscarPorID).Methods("GET")

	// Rotas de recebimentos
	api.HandleFunc("/recebimentos", recebimentoHandler.Criar).Methods("POST")
	api.HandleFunc("/recebimentos", recebimentoHandler.Listar).Methods("GET")
	api.HandleFunc("/recebimentos/{id}", recebimentoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/recebimentos/{id}", alocacaoHandler.CancelarRecebimento).Methods("DELETE")
	api.HandleFunc("/recebimentos/{id}/alocacoes", alocacaoHandler.ListarPorRecebimento).Methods("GET")
	api.HandleFunc("/recebimentos/{id}/resumo", alocacaoHandler.ResumoRecebimento).Methods("GET")
	api.HandleFunc("/recebimentos/{id}/conciliar", conciliacaoHandler.Conciliar).Methods("POST")

	// Rotas de alocações
	api.HandleFunc("/alocacoes", alocacaoHandler.Criar).Methods("POST")
	api.HandleFunc("/obrigacoes/{tipo}/{id}/resumo", alocacaoHandler.ResumoObrigacao).Methods("GET")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	// Inicia servidor
	fmt.Println("Servidor rodando em http://localhost:" + porta)
	log.Fatal(http.ListenAndServe(":"+porta, handler))
}
