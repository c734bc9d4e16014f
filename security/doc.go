// Package security holds the client TLS settings shared by the outbound
// connections dmnkit makes: the OTLP collector and PostgreSQL.
//
//	tls:
//	  ca_file: /etc/dmnkit/ca.pem
//	  cert_file: /etc/dmnkit/client.pem
//	  key_file: /etc/dmnkit/client-key.pem
//	  min_version: "1.3"
package security
