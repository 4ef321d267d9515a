package models

// Shared returns the models owned by the core (users, auth, themes, logs).
// Plugins migrate their own models on top of these.
func Shared() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&SystemLog{},
		&Tema{},
		&Subtema{},
	}
}

// All returns every model, parents before children.
func All() []interface{} {
	return append(Shared(),
		&Dica{},
		&DicaSubtema{},
		&Receita{},
		&ReceitaSubtema{},
		&ReceitaFoto{},
		&Ingrediente{},
		&Quiz{},
	)
}
