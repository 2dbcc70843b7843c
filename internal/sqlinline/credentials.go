package sqlinline

const QSelectProviderCredential = `--sql 3f9a2c71-5d4e-4b8a-a6c2-9e1d7b3f0a58
select api_key
from provider_credentials
where provider = $1;
`

const QUpsertProviderCredential = `--sql a7e41b09-2c6d-4f3e-8b15-6d0c9f2e4a73
insert into provider_credentials (provider, api_key, updated_at)
values ($1, $2, now())
on conflict (provider) do update set api_key = excluded.api_key, updated_at = now();
`
