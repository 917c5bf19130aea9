package rules

// rmRecursiveForce matches rm with combined recursive+force flags in either
// order (-rf, -fr, -vrf, ...).
const rmRecursiveForce = `rm\s+-(?:[a-zA-Z]*[rR][a-zA-Z]*f[a-zA-Z]*|[a-zA-Z]*f[a-zA-Z]*[rR][a-zA-Z]*)`

// rmSeparateFlags matches rm with -r and -f given as separate flags.
const rmSeparateFlags = `rm\s+(?:-[a-zA-Z]+\s+)*-[rR]\s+(?:-[a-zA-Z]+\s+)*-f\b|` +
	`rm\s+(?:-[a-zA-Z]+\s+)*-f\s+(?:-[a-zA-Z]+\s+)*-[rR]\b`

// tmpTargets matches deletion targets confined to temp directories, with an
// optional opening double quote.
const tmpTargets = `(?:"?/tmp/|"?/var/tmp/|"?\$TMPDIR/|"?\$\{TMPDIR)`

// registerCore installs the safe-consumer table and the filesystem, git,
// disk, database, docker, kubernetes and shell rules.
func registerCore(c *Catalog) {
	// Commands whose quoted arguments are data, not code. The context
	// classifier consults this table; keeping it here makes it auditable
	// next to the deny patterns it moderates.
	c.safeConsumers(
		"echo", "printf", "cat", "grep", "egrep", "fgrep", "rg", "ag",
		"sed", "awk", "head", "tail", "less", "more", "wc",
		"tee", "sort", "uniq", "cut", "tr", "xargs",
		"test", "[",
	)
	c.messageFlagNames("-m", "--message")

	// ─── Tier 1: catastrophic, irreversible ───

	c.tier1Rule("fs-rm-root", "filesystem",
		rmRecursiveForce+`\s+/(?:\s|\*|"|'|$)`,
		"rm -rf on the root filesystem is CATASTROPHIC. This will NOT be executed.")

	c.tier1Rule("fs-rm-home", "filesystem",
		rmRecursiveForce+`\s+(?:~/?(?:\s|\*|"|'|$)|"?\$HOME/?)`,
		"rm -rf on the home directory is CATASTROPHIC. This will NOT be executed.")

	c.tier1Rule("disk-dd-device", "disk",
		`dd\s+.*of=/dev/`,
		"dd to a block device can destroy disk partitions. This will NOT be executed.")

	c.tier1Rule("disk-mkfs", "disk",
		`mkfs\.`,
		"mkfs formats a filesystem, destroying all data. This will NOT be executed.")

	c.tier1Rule("disk-fdisk", "disk",
		`fdisk\s+/dev/`,
		"fdisk modifies disk partition tables. This will NOT be executed.")

	c.tier1Rule("db-drop-database", "database",
		`(?i)DROP\s+DATABASE`,
		"DROP DATABASE destroys an entire database. This will NOT be executed.")

	c.tier1Rule("db-drop-schema", "database",
		`(?i)DROP\s+SCHEMA`,
		"DROP SCHEMA destroys an entire schema. This will NOT be executed.")

	c.tier1Rule("shell-fork-bomb", "shell",
		`:\(\)\s*\{\s*:\|:\s*&\s*\}\s*;|fork\s+while\s+fork|while\s+true\s*;\s*do\s+fork`,
		"Fork bomb / shell DoS detected. This will NOT be executed.")

	c.tier1Rule("shell-pipe-to-shell", "shell",
		`\|\s*(?:bash|sh|zsh|dash)(?:\s+-[a-zA-Z]+)*\s*(?:$|;|&&|\|\|)`,
		"Piping output to a shell interpreter executes arbitrary code. This will NOT be executed.")

	c.tier1Rule("interp-python-destructive", "interpreter",
		`python[23]?\s+-c\s+.*(?:os\.(?:remove|unlink|rmdir)|shutil\.(?:rmtree|move))`,
		"Destructive filesystem operation in an inline Python script. This will NOT be executed.")

	c.tier1Rule("interp-ruby-destructive", "interpreter",
		`ruby\s+-e\s+.*(?:FileUtils\.rm_rf?|File\.delete|Dir\.rmdir)`,
		"Destructive filesystem operation in an inline Ruby script. This will NOT be executed.")

	c.tier1Rule("interp-perl-destructive", "interpreter",
		`perl\s+-e\s+.*(?:unlink|rmdir|rmtree|File::Path)`,
		"Destructive filesystem operation in an inline Perl script. This will NOT be executed.")

	c.tier1Rule("interp-node-destructive", "interpreter",
		`node\s+-e\s+.*(?:rmSync|rmdirSync|unlinkSync|rimraf)`,
		"Destructive filesystem operation in an inline Node script. This will NOT be executed.")

	c.tier1Rule("k8s-delete-namespace", "kubernetes",
		`kubectl\s+delete\s+namespace`,
		"Deleting a Kubernetes namespace destroys all resources in it. This will NOT be executed.")

	c.tier1Rule("k8s-delete-all", "kubernetes",
		`kubectl\s+delete\s+.*--all\b`,
		"kubectl delete --all removes all resources of that type. This will NOT be executed.")

	// ─── Tier 2: dangerous, safer alternative exists ───

	c.tier2Rule("git-force-push", "git",
		`git\s+push\s+.*--force(?:\s|"|'|$)`,
		"Force push can destroy remote history.",
		"Use --force-with-lease instead: it fails if someone else pushed.")

	c.tier2Rule("git-force-push-short", "git",
		`git\s+push\s+.*-f\b`,
		"Force push (-f) can destroy remote history.",
		"Use --force-with-lease instead: it fails if someone else pushed.")

	c.tier2Rule("git-reset-hard", "git",
		`git\s+reset\s+--hard`,
		"git reset --hard destroys uncommitted changes.",
		"Use 'git stash' first to save changes, then reset.")

	c.tier2Rule("git-reset-merge", "git",
		`git\s+reset\s+--merge`,
		"git reset --merge can lose uncommitted changes.",
		"Use 'git stash' first to save changes, then reset.")

	c.tier2Rule("git-checkout-discard-all", "git",
		`git\s+checkout\s+--\s+\.`,
		"git checkout -- . discards all uncommitted changes.",
		"Use 'git stash' to save changes, or 'git diff' to review first.")

	c.tier2Rule("git-checkout-discard-path", "git",
		`git\s+checkout\s+--\s+`,
		"git checkout -- <path> discards uncommitted changes to that path.",
		"Use 'git stash' first, or 'git diff <path>' to review changes.")

	c.tier2Rule("git-restore", "git",
		`git\s+restore\s+`,
		"git restore discards uncommitted changes.",
		"Use 'git restore --staged' to unstage, or 'git stash' to save changes.")

	c.tier2Rule("git-clean-force", "git",
		`git\s+clean\s+-[a-z]*f`,
		"git clean -f removes untracked files permanently.",
		"Run 'git clean -n' first (dry run) to see what would be removed.")

	c.tier2Rule("git-branch-force-delete", "git",
		`git\s+branch\s+-D\b`,
		"git branch -D force-deletes without checking if the branch is merged.",
		"Use 'git branch -d' instead: it only deletes if the branch is merged.")

	c.tier2Rule("git-stash-drop", "git",
		`git\s+stash\s+drop`,
		"git stash drop permanently deletes a stashed change.",
		"Run 'git stash list' first to review what would be lost.")

	c.tier2Rule("git-stash-clear", "git",
		`git\s+stash\s+clear`,
		"git stash clear permanently deletes ALL stashed changes.",
		"Run 'git stash list' first to review what would be lost.")

	c.tier2Rule("git-commit-no-verify", "git",
		`git\s+commit\s+.*--no-verify`,
		"Skipping pre-commit hooks bypasses safety checks.",
		"Remove --no-verify and fix any hook failures instead.")

	c.tier2Rule("git-push-no-verify", "git",
		`git\s+push\s+.*--no-verify`,
		"Skipping pre-push hooks bypasses safety checks.",
		"Remove --no-verify and fix any hook failures instead.")

	c.tier2Rule("fs-rm-recursive", "filesystem",
		rmRecursiveForce,
		"rm -rf is destructive and irreversible.",
		"List the directory contents first, then ask the user to confirm deletion.")

	c.tier2Rule("fs-rm-separate-flags", "filesystem",
		rmSeparateFlags,
		"rm with separate -r -f flags is destructive.",
		"List the directory contents first, then ask the user to confirm deletion.")

	c.tier2Rule("fs-rm-long-flags", "filesystem",
		`rm\s+.*--recursive.*--force|rm\s+.*--force.*--recursive`,
		"rm --recursive --force is destructive.",
		"List the directory contents first, then ask the user to confirm deletion.")

	c.tier2Rule("docker-system-prune", "docker",
		`docker\s+system\s+prune`,
		"docker system prune removes unused containers, networks, images, and optionally volumes.",
		"Run 'docker system prune --dry-run' first to see what would be removed.")

	c.tier2Rule("docker-rm-force", "docker",
		`docker\s+rm\s+(?:-f\b|--force)`,
		"docker rm -f force-removes running containers.",
		"Use 'docker stop' first, then 'docker rm' without --force.")

	c.tier2Rule("docker-volume-rm", "docker",
		`docker\s+volume\s+rm`,
		"docker volume rm permanently deletes volume data.",
		"Run 'docker volume ls' first to review, and confirm with the user.")

	c.tier2Rule("docker-network-rm", "docker",
		`docker\s+network\s+rm`,
		"docker network rm removes a network and disconnects containers.",
		"Run 'docker network ls' first to review, and confirm with the user.")

	c.tier2Rule("docker-compose-down-volumes", "docker",
		`docker\s+compose\s+down\s+.*-v\b|docker-compose\s+down\s+.*-v\b`,
		"docker compose down -v destroys all named volumes.",
		"Use 'docker compose down' without -v to preserve volume data.")

	c.tier2Rule("docker-rmi-force", "docker",
		`docker\s+rmi\s+(?:-f\b|--force)`,
		"docker rmi -f force-removes images even if containers use them.",
		"Use 'docker rmi' without --force for safe removal.")

	c.tier2Rule("perm-chmod-777", "permissions",
		`chmod\s+.*\b777\b`,
		"chmod 777 makes files world-readable, writable, and executable.",
		"Use specific permissions: 755 for directories, 644 for files.")

	c.tier2Rule("db-drop-table", "database",
		`(?i)DROP\s+TABLE`,
		"DROP TABLE permanently removes a table and its data.",
		"Add IF EXISTS and confirm the table name with the user first.")

	c.tier2Rule("db-truncate", "database",
		`(?i)TRUNCATE\s+`,
		"TRUNCATE removes all rows from a table.",
		"Use DELETE with a WHERE clause for targeted removal, or confirm with the user.")

	c.tier2Rule("db-delete-no-where", "database",
		`(?i)DELETE\s+FROM\s+\w+\s*(?:;|"|'|$)`,
		"DELETE FROM without WHERE removes all rows.",
		"Add a WHERE clause, or confirm with the user that all rows should be deleted.")

	c.tier2Rule("k8s-delete", "kubernetes",
		`kubectl\s+delete\s+`,
		"kubectl delete removes Kubernetes resources.",
		"Use 'kubectl delete --dry-run=client' first to preview, and confirm with the user.")

	// ─── Allowlist: safe shapes of otherwise-blocked commands ───

	c.allowRule("allow-git-checkout-branch", "git", `git\s+checkout\s+-b\s+`)
	c.allowRule("allow-git-checkout-orphan", "git", `git\s+checkout\s+--orphan\s+`)
	c.allowRuleExcept("allow-git-restore-staged", "git",
		`git\s+restore\s+(?:--staged|-S)\b`, `--worktree|\s-W\b`)
	c.allowRule("allow-git-clean-dry-run", "git", `git\s+clean\s+(?:-n\b|--dry-run)`)
	c.allowRule("allow-git-force-with-lease", "git", `git\s+push\s+.*--force-with-lease`)
	c.allowRule("allow-git-force-if-includes", "git", `git\s+push\s+.*--force-if-includes`)

	c.allowRule("allow-rm-tmp", "filesystem",
		rmRecursiveForce+`\s+`+tmpTargets)
	c.allowRule("allow-rm-tmp-separate-flags", "filesystem",
		`rm\s+(?:-[a-zA-Z]+\s+)*-[rR]\s+(?:-[a-zA-Z]+\s+)*-f\s+`+tmpTargets+
			`|rm\s+(?:-[a-zA-Z]+\s+)*-f\s+(?:-[a-zA-Z]+\s+)*-[rR]\s+`+tmpTargets)
	c.allowRule("allow-rm-tmp-long-flags", "filesystem",
		`rm\s+.*--recursive.*--force\s+`+tmpTargets+
			`|rm\s+.*--force.*--recursive\s+`+tmpTargets)

	c.allowRule("allow-docker-prune-dry-run", "docker",
		`docker\s+system\s+prune\s+.*--dry-run`)
	c.allowRule("allow-kubectl-dry-run", "kubernetes",
		`kubectl\s+delete\s+.*--dry-run`)

	c.allowRule("allow-db-drop-if-exists-test", "database",
		`(?i)DROP\s+TABLE\s+IF\s+EXISTS.*--.*test`)
	c.allowRule("allow-db-create-drop", "database",
		`(?i)CREATE\s+.*DROP`)
}
