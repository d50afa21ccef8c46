package config

// DefaultDatabasePath is the default path for the destination blog database
const DefaultDatabasePath = "./blogsync.db"
