package model

// Entity kinds flowing through the pipeline.
const (
	EntityCampaign = "campaign"
	EntityCustomer = "customer"
)
