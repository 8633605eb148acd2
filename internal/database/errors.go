package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// PersistenceError cobre uma falha do banco com a mensagem de domínio que o
// repositório escolheu, preservando a causa original para os logs. A mensagem
// crua do engine nunca chega à camada HTTP.
type PersistenceError struct {
	Mensagem string
	Causa    error
}

func (e *PersistenceError) Error() string { return e.Mensagem }
func (e *PersistenceError) Unwrap() error { return e.Causa }

// Wrap embrulha err com a mensagem de domínio. Devolve nil para err nil.
func Wrap(err error, mensagem string) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Mensagem: mensagem, Causa: err}
}

// IsUniqueViolation identifica violação de índice único (nome de cliente
// duplicado) nos dois drivers suportados.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		contemTexto(err, "UNIQUE constraint failed") ||
		contemTexto(err, "duplicate key value")
}

// IsForeignKeyViolation identifica violação de FK (cliente com serviços
// vinculados) nos dois drivers suportados.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		contemTexto(err, "FOREIGN KEY constraint failed") ||
		contemTexto(err, "violates foreign key")
}

// contemTexto procura o texto do engine na cadeia inteira de erros. O
// PersistenceError expõe só a mensagem de domínio em Error(), então a causa
// original precisa ser inspecionada elo a elo.
func contemTexto(err error, texto string) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if strings.Contains(err.Error(), texto) {
			return true
		}
	}
	return false
}
