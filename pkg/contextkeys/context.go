package contextkeys

// Custom type avoids collisions with other context values.
type contextKey string

// DBContextKey is the key under which the *gorm.DB (pool or transaction) is stored.
const DBContextKey = contextKey("db")
