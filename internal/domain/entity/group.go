package entity

// ProfileGroup representa uma unidade de trabalho para a análise de tendência.
// Pode ser um único perfil, os perfis de uma mesma conta (--combine) ou todos
// os perfis selecionados numa visão única (--merge-all).
type ProfileGroup struct {
	// Identifier é o nome exibido na interface.
	Identifier string

	// AccountID é o ID da conta AWS, vazio para visões de várias contas.
	AccountID string

	// Profiles são os perfis AWS reais que compõem o grupo.
	Profiles []string

	// IsCombined indica que as séries dos perfis devem ser somadas.
	IsCombined bool
}
