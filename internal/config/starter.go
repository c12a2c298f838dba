package config

// starter is the commented configuration written by snaplink init.
const starter = `# snaplink configuration.
version: 1

# Optional job name used in notifications. Defaults to the directory
# holding this file.
# name: documents

# The data to back up.
source:
  type: path
  path: ~/documents

# Candidate backup targets, tried in order. The first reachable one is
# used for the whole operation.
targets:
  - type: path
    path: /mnt/backups/documents
  # - type: ssh
  #   user: backup
  #   host: nas.example.com
  #   port: 22
  #   path: /srv/backups/documents
  #   identity_file: ~/.ssh/id_ed25519
  #   known_hosts_file: ~/.ssh/known_hosts

# Optional notifications. Without any entry, messages go to the
# terminal. Accepted types: console, command, notify-send, log.
# notifications:
#   - type: notify-send

# Optional transfer filtering.
# transfer:
#   exclude:
#     - .cache
`

// Starter returns the commented starter configuration.
func Starter() []byte {
	return []byte(starter)
}
