package rules

// registerDNS installs the Route53, Cloud DNS, and Azure DNS rules.
func registerDNS(c *Catalog) {
	c.tier1Rule("dns-route53-delete-zone", "dns",
		`aws\s+route53\s+delete-hosted-zone`,
		"Deleting a Route53 hosted zone removes all DNS records. This will NOT be executed.")

	c.tier2Rule("dns-route53-delete-records", "dns",
		`aws\s+route53\s+change-resource-record-sets\s+.*"DELETE"`,
		"Deleting Route53 DNS records can break service resolution.",
		"Run 'aws route53 list-resource-record-sets' first to review records.")

	c.tier2Rule("dns-gcp-delete-zone", "dns",
		`gcloud\s+dns\s+managed-zones\s+delete`,
		"Deleting a Cloud DNS zone removes all DNS records.",
		"Run 'gcloud dns managed-zones list' first to review.")

	c.tier2Rule("dns-az-delete-zone", "dns",
		`az\s+network\s+dns\s+zone\s+delete`,
		"Deleting an Azure DNS zone removes all DNS records.",
		"Run 'az network dns zone list' first to review.")
}
