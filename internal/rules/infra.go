package rules

// registerInfra installs the Terraform, Pulumi, and CDK rules.
func registerInfra(c *Catalog) {
	c.tier2Rule("infra-terraform-destroy", "infra",
		`terraform\s+destroy`,
		"terraform destroy removes all managed infrastructure.",
		"Run 'terraform plan -destroy' first to preview what would be destroyed.")

	c.tier2Rule("infra-terraform-apply-destroy", "infra",
		`terraform\s+apply\s+.*-destroy`,
		"terraform apply -destroy removes all managed infrastructure.",
		"Run 'terraform plan -destroy' first to preview what would be destroyed.")

	c.tier2Rule("infra-pulumi-destroy", "infra",
		`pulumi\s+destroy`,
		"pulumi destroy removes all managed infrastructure.",
		"Run 'pulumi preview --destroy' first to preview what would be destroyed.")

	c.tier2Rule("infra-cdk-destroy", "infra",
		`cdk\s+destroy`,
		"cdk destroy removes all CloudFormation stacks and their resources.",
		"Run 'cdk diff' first to review the current state.")
}
