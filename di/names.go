package di

// BeanNames defines the well-known bean keys of the engine bootstrap.
// Users override an auto-configured bean by registering the same key first.
type BeanNames struct {
	Config string
	Logger string

	// Persistence
	DataSource         string
	TransactionManager string

	// Decision engine
	DMNEngineConfiguration string
	DMNEngine              string
	DMNEngineConfigurator  string

	// Process engine
	ProcessEngineConfiguration string
	ProcessEngine              string
	DMNProcessConfigurer       string
}

// Beans contains the bean keys used by the auto-configurations.
var Beans = BeanNames{
	Config: "config",
	Logger: "logger",

	DataSource:         "dataSource",
	TransactionManager: "transactionManager",

	DMNEngineConfiguration: "dmnEngineConfiguration",
	DMNEngine:              "dmnEngine",
	DMNEngineConfigurator:  "dmnEngineConfigurator",

	ProcessEngineConfiguration: "processEngineConfiguration",
	ProcessEngine:              "processEngine",
	DMNProcessConfigurer:       "dmnProcessEngineConfigurationConfigurer",
}
