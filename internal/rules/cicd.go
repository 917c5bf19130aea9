package rules

// registerCICD installs the GitHub CLI rules.
func registerCICD(c *Catalog) {
	c.tier1Rule("gh-repo-delete", "cicd",
		`gh\s+repo\s+delete`,
		"Deleting a GitHub repository is permanent and destroys all code, issues, and PRs. This will NOT be executed.")

	c.tier2Rule("gh-release-delete", "cicd",
		`gh\s+release\s+delete`,
		"Deleting a release removes the release and its assets.",
		"Run 'gh release list' first to review releases.")

	c.tier2Rule("gh-secret-delete", "cicd",
		`gh\s+secret\s+delete`,
		"Deleting a secret removes it from the repository.",
		"Run 'gh secret list' first to review secrets.")
}
