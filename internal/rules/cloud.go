package rules

// registerCloud installs the AWS, GCP, and Azure CLI rules.
func registerCloud(c *Catalog) {
	// AWS
	c.tier1Rule("aws-terminate-instances", "cloud",
		`aws\s+ec2\s+terminate-instances`,
		"Terminating EC2 instances destroys them permanently. This will NOT be executed.")

	c.tier1Rule("aws-delete-db-cluster", "cloud",
		`aws\s+rds\s+delete-db-cluster`,
		"Deleting an RDS cluster destroys the database and all data. This will NOT be executed.")

	c.tier1Rule("aws-delete-db-instance", "cloud",
		`aws\s+rds\s+delete-db-instance`,
		"Deleting an RDS instance destroys the database. This will NOT be executed.")

	c.tier2Rule("aws-s3-rm-recursive", "cloud",
		`aws\s+s3\s+rm\s+.*--recursive`,
		"aws s3 rm --recursive deletes all objects in the path.",
		"Run 'aws s3 ls <path>' first to review, or add --dryrun to preview deletions.")

	c.tier2Rule("aws-s3-rb-force", "cloud",
		`aws\s+s3\s+rb\s+.*--force`,
		"aws s3 rb --force empties and deletes the entire bucket.",
		"Run 'aws s3 ls <bucket>' first to review contents.")

	c.allowRule("allow-aws-s3-rm-dryrun", "cloud", `aws\s+s3\s+rm\s+.*--dryrun`)

	// GCP
	c.tier1Rule("gcp-delete-project", "cloud",
		`gcloud\s+projects\s+delete`,
		"Deleting a GCP project destroys all resources in it. This will NOT be executed.")

	c.tier2Rule("gcp-delete-instances", "cloud",
		`gcloud\s+compute\s+instances\s+delete`,
		"Deleting compute instances destroys them.",
		"Run 'gcloud compute instances list' first to review.")

	c.tier2Rule("gcp-delete-sql-instance", "cloud",
		`gcloud\s+sql\s+instances\s+delete`,
		"Deleting a Cloud SQL instance destroys the database.",
		"Run 'gcloud sql instances list' first to review.")

	c.tier2Rule("gcp-gsutil-rm-recursive", "cloud",
		`gsutil\s+rm\s+-r`,
		"gsutil rm -r recursively deletes all objects.",
		"Run 'gsutil ls <path>' first to review contents.")

	// Azure
	c.tier2Rule("az-group-delete", "cloud",
		`az\s+group\s+delete`,
		"Deleting a resource group destroys all resources in it.",
		"Run 'az group show --name <name>' first to review, or add --dry-run.")

	c.tier2Rule("az-vm-delete", "cloud",
		`az\s+vm\s+delete`,
		"Deleting a VM destroys it.",
		"Run 'az vm show' first to review.")

	c.tier2Rule("az-storage-delete", "cloud",
		`az\s+storage\s+account\s+delete`,
		"Deleting a storage account destroys all data in it.",
		"Run 'az storage account show' first to review.")

	c.tier2Rule("az-sql-server-delete", "cloud",
		`az\s+sql\s+server\s+delete`,
		"Deleting a SQL server destroys all databases on it.",
		"Run 'az sql server show' first to review.")

	c.allowRule("allow-az-group-delete-dry-run", "cloud", `az\s+group\s+delete\s+.*--dry-run`)
}
